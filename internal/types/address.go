package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress 校验 EVM 地址并统一为 EIP-55 校验和格式，保证同一地址只有一种写法
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: bad address %q", ErrInvalidArgument, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// SameAddress 比较两个地址，大小写不敏感
func SameAddress(a, b string) bool {
	if !common.IsHexAddress(a) || !common.IsHexAddress(b) {
		return false
	}
	return common.HexToAddress(a) == common.HexToAddress(b)
}

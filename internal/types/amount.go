package types

import (
	"fmt"
	"math/big"
)

// ParseAmount 解析十进制的最小单位数量，必须为正数
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: bad amount %q", ErrInvalidArgument, s)
	}
	return amount, nil
}

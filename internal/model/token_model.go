package model

import (
	"context"
	"fmt"
	"math/big"

	"token_leaderboard/internal/types"

	"github.com/go-redis/redis/v8"
)

// TokenModel 基于 Redis 的代币账本
// balances: hash 地址 -> 余额（十进制字符串，最小单位）
// holders:  list 首次收到代币的顺序，只追加
// known:    set  holders 去重
// burner:   被授权销毁代币的地址，未设置时使用创建时传入的默认值
// genesis:  初始发行标记
type TokenModel struct {
	rdb      *redis.Client
	contract string
	owner    string
	burner   string
}

func NewTokenModel(rdb *redis.Client, contract, owner, burner string) *TokenModel {
	return &TokenModel{
		rdb:      rdb,
		contract: contract,
		owner:    owner,
		burner:   checksum(burner),
	}
}

func (m *TokenModel) Contract() string {
	return m.contract
}

func (m *TokenModel) balancesKey() string {
	return fmt.Sprintf("ledger:token:%s:balances", m.contract)
}

func (m *TokenModel) holdersKey() string {
	return fmt.Sprintf("ledger:token:%s:holders", m.contract)
}

func (m *TokenModel) knownKey() string {
	return fmt.Sprintf("ledger:token:%s:known", m.contract)
}

func (m *TokenModel) burnerKey() string {
	return fmt.Sprintf("ledger:token:%s:burner", m.contract)
}

func (m *TokenModel) genesisKey() string {
	return fmt.Sprintf("ledger:token:%s:genesis", m.contract)
}

// BalanceOf 查询余额，未出现过的地址余额为 0
func (m *TokenModel) BalanceOf(ctx context.Context, address string) (*big.Int, error) {
	address, err := types.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	val, err := m.rdb.HGet(ctx, m.balancesKey(), address).Result()
	if err == redis.Nil {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	balance, ok := new(big.Int).SetString(val, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt balance %q for %s", val, address)
	}
	return balance, nil
}

// KnownAddresses 按首次收到代币的顺序返回所有地址
func (m *TokenModel) KnownAddresses(ctx context.Context) ([]string, error) {
	return m.rdb.LRange(ctx, m.holdersKey(), 0, -1).Result()
}

// Holders 返回所有持有人及当前余额
func (m *TokenModel) Holders(ctx context.Context) ([]types.Holder, error) {
	addresses, err := m.KnownAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return []types.Holder{}, nil
	}
	vals, err := m.rdb.HMGet(ctx, m.balancesKey(), addresses...).Result()
	if err != nil {
		return nil, err
	}
	holders := make([]types.Holder, 0, len(addresses))
	for i, address := range addresses {
		balance := new(big.Int)
		if s, ok := vals[i].(string); ok {
			if _, ok := balance.SetString(s, 10); !ok {
				return nil, fmt.Errorf("corrupt balance %q for %s", s, address)
			}
		}
		holders = append(holders, types.Holder{Address: address, Balance: balance})
	}
	return holders, nil
}

// Claim 用户领取游戏得分兑换的代币
func (m *TokenModel) Claim(ctx context.Context, address string, amount *big.Int) error {
	return m.credit(ctx, []types.Reward{{Address: address, Amount: amount}})
}

// Reward 管理员批量发放奖励，所有地址在同一脚本内入账
func (m *TokenModel) Reward(ctx context.Context, caller string, rewards []types.Reward) error {
	if !types.SameAddress(caller, m.owner) {
		return fmt.Errorf("%w: %s is not the token owner", types.ErrNotAuthorized, caller)
	}
	if len(rewards) == 0 {
		return fmt.Errorf("%w: no recipients", types.ErrInvalidArgument)
	}
	return m.credit(ctx, rewards)
}

// Seed 向管理员发行初始供应量，每个合约只执行一次
// 管理员不会因此进入持有人列表
func (m *TokenModel) Seed(ctx context.Context, amount *big.Int) (bool, error) {
	owner, err := types.NormalizeAddress(m.owner)
	if err != nil {
		return false, fmt.Errorf("owner: %w", err)
	}
	if amount == nil || amount.Sign() <= 0 {
		return false, fmt.Errorf("%w: initial supply must be positive", types.ErrInvalidArgument)
	}
	applied, err := creditScript.Run(ctx, m.rdb,
		[]string{m.balancesKey(), m.knownKey(), m.holdersKey(), m.genesisKey()},
		"0", owner, amount.String()).Int64()
	if err != nil {
		return false, err
	}
	return applied == 1, nil
}

// Burner 当前被授权销毁代币的地址
func (m *TokenModel) Burner(ctx context.Context) (string, error) {
	burner, err := m.rdb.Get(ctx, m.burnerKey()).Result()
	if err == redis.Nil {
		return m.burner, nil
	}
	return burner, err
}

// SetBurner 管理员更换被授权销毁代币的地址
func (m *TokenModel) SetBurner(ctx context.Context, caller, burner string) error {
	if !types.SameAddress(caller, m.owner) {
		return fmt.Errorf("%w: %s is not the token owner", types.ErrNotAuthorized, caller)
	}
	burner, err := types.NormalizeAddress(burner)
	if err != nil {
		return fmt.Errorf("burner: %w", err)
	}
	return m.rdb.Set(ctx, m.burnerKey(), burner, 0).Err()
}

func (m *TokenModel) credit(ctx context.Context, rewards []types.Reward) error {
	args := make([]any, 0, 1+2*len(rewards))
	args = append(args, "1")
	for _, r := range rewards {
		address, err := types.NormalizeAddress(r.Address)
		if err != nil {
			return err
		}
		if r.Amount == nil || r.Amount.Sign() <= 0 {
			return fmt.Errorf("%w: amount must be positive", types.ErrInvalidArgument)
		}
		args = append(args, address, r.Amount.String())
	}

	return creditScript.Run(ctx, m.rdb,
		[]string{m.balancesKey(), m.knownKey(), m.holdersKey()}, args...).Err()
}

var _ TokenSource = (*TokenModel)(nil)

package model

import (
	"context"
	"fmt"
	"strconv"

	"token_leaderboard/internal/types"

	"github.com/go-redis/redis/v8"
)

// CollectibleModel 基于 Redis 的藏品账本
// owned:{address}: hash 等级 -> 持有数量
// supply: 已铸造总量，同时作为下一个 tokenID
// baseURI: 元数据前缀，未设置时使用配置值
type CollectibleModel struct {
	rdb      *redis.Client
	contract string
	owner    string
	scorer   *Scorer
	baseURI  string
}

func NewCollectibleModel(rdb *redis.Client, contract, owner string, scorer *Scorer, baseURI string) *CollectibleModel {
	return &CollectibleModel{
		rdb:      rdb,
		contract: contract,
		owner:    owner,
		scorer:   scorer,
		baseURI:  baseURI,
	}
}

func (m *CollectibleModel) Contract() string {
	return m.contract
}

func (m *CollectibleModel) ownedKey(address string) string {
	return fmt.Sprintf("ledger:collectible:%s:owned:%s", m.contract, address)
}

func (m *CollectibleModel) supplyKey() string {
	return fmt.Sprintf("ledger:collectible:%s:supply", m.contract)
}

func (m *CollectibleModel) baseURIKey() string {
	return fmt.Sprintf("ledger:collectible:%s:baseURI", m.contract)
}

// OwnershipCount 返回按等级下标排列的持有数量，长度为 MaxTier
func (m *CollectibleModel) OwnershipCount(ctx context.Context, address string) ([]uint64, error) {
	address, err := types.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	vals, err := m.rdb.HGetAll(ctx, m.ownedKey(address)).Result()
	if err != nil {
		return nil, err
	}
	counts := make([]uint64, m.scorer.Tiers().MaxTier())
	for field, val := range vals {
		index, err := strconv.Atoi(field)
		if err != nil || index < 0 || index >= len(counts) {
			continue
		}
		count, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt count %q for %s tier %d", val, address, index)
		}
		counts[index] = count
	}
	return counts, nil
}

// Claim 销毁等级价格对应的代币并铸造一个藏品，扣款与铸造在同一脚本内完成
func (m *CollectibleModel) Claim(ctx context.Context, token *TokenModel, address string, index int) (*types.Mint, error) {
	address, err := types.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	tier, ok := m.scorer.Tiers().Lookup(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidTier, index)
	}
	cost := m.scorer.Units(tier.Cost)

	tokenID, err := claimScript.Run(ctx, m.rdb,
		[]string{token.balancesKey(), token.burnerKey(), m.ownedKey(address), m.supplyKey()},
		checksum(m.contract), token.burner, address, cost.String(), tier.Index).Int64()
	if err != nil {
		return nil, err
	}
	switch tokenID {
	case claimNotBurner:
		return nil, fmt.Errorf("%w: %s is not the token burner", types.ErrNotAuthorized, m.contract)
	case claimInsufficientFunds:
		return nil, fmt.Errorf("%w: %s needs %s for tier %d", types.ErrInsufficientFunds, address, cost, tier.Index)
	}

	uri, err := m.uriFor(ctx, uint64(tokenID))
	if err != nil {
		return nil, err
	}
	return &types.Mint{
		TokenID: uint64(tokenID),
		Tier:    tier.Index,
		URI:     uri,
	}, nil
}

// BaseURI 当前元数据前缀
func (m *CollectibleModel) BaseURI(ctx context.Context) (string, error) {
	uri, err := m.rdb.Get(ctx, m.baseURIKey()).Result()
	if err == redis.Nil {
		return m.baseURI, nil
	}
	return uri, err
}

// SetBaseURI 管理员修改元数据前缀，已铸造的藏品同样生效
func (m *CollectibleModel) SetBaseURI(ctx context.Context, caller, uri string) error {
	if !types.SameAddress(caller, m.owner) {
		return fmt.Errorf("%w: %s is not the collectible owner", types.ErrNotAuthorized, caller)
	}
	return m.rdb.Set(ctx, m.baseURIKey(), uri, 0).Err()
}

// TokenURI 元数据地址，tokenID 未铸造时返回 ErrNotFound，未配置 baseURI 时为空
func (m *CollectibleModel) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	supply, err := m.rdb.Get(ctx, m.supplyKey()).Uint64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	if tokenID == 0 || tokenID > supply {
		return "", fmt.Errorf("%w: token %d", types.ErrNotFound, tokenID)
	}
	return m.uriFor(ctx, tokenID)
}

func (m *CollectibleModel) uriFor(ctx context.Context, tokenID uint64) (string, error) {
	base, err := m.BaseURI(ctx)
	if err != nil || base == "" {
		return "", err
	}
	return base + strconv.FormatUint(tokenID, 10), nil
}

var _ CollectibleSource = (*CollectibleModel)(nil)

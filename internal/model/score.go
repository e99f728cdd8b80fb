package model

import (
	"math"
	"math/big"
	"math/bits"
	"sort"

	"token_leaderboard/internal/types"
)

// DefaultTiers 铜 / 银 / 金三档藏品，等级下标与链上合约保持一致
var DefaultTiers = []types.Tier{
	{Index: 1, Name: "Bronze", Points: 10, Cost: 50},
	{Index: 3, Name: "Silver", Points: 50, Cost: 300},
	{Index: 8, Name: "Gold", Points: 100, Cost: 500},
}

// TierTable 藏品等级配置表：等级下标 -> 分值 / 兑换价格，未配置的等级分值为 0
type TierTable struct {
	maxTier int
	tiers   map[int]types.Tier
}

// NewTierTable 创建等级表，合法下标范围为 [1, maxTier)，越界配置直接忽略
func NewTierTable(maxTier int, tiers []types.Tier) *TierTable {
	t := &TierTable{
		maxTier: maxTier,
		tiers:   make(map[int]types.Tier, len(tiers)),
	}
	for _, tier := range tiers {
		if tier.Index < 1 || tier.Index >= maxTier {
			continue
		}
		t.tiers[tier.Index] = tier
	}
	return t
}

// MaxTier 等级下标上限（不含）
func (t *TierTable) MaxTier() int {
	return t.maxTier
}

// Points 返回某等级的分值
func (t *TierTable) Points(index int) uint64 {
	return t.tiers[index].Points
}

// Lookup 查询可兑换的等级，需要下标合法且配置了价格
func (t *TierTable) Lookup(index int) (types.Tier, bool) {
	tier, ok := t.tiers[index]
	if !ok || tier.Cost == 0 {
		return types.Tier{}, false
	}
	return tier, true
}

// Tiers 按下标升序返回所有已配置等级
func (t *TierTable) Tiers() []types.Tier {
	list := make([]types.Tier, 0, len(t.tiers))
	for _, tier := range t.tiers {
		list = append(list, tier)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Index < list[j].Index })
	return list
}

// Scorer 计算排行榜分数
type Scorer struct {
	tiers *TierTable
	unit  *big.Int
}

// NewScorer decimals 为代币精度，整币 = 最小单位 / 10^decimals
func NewScorer(tiers *TierTable, decimals int) *Scorer {
	return &Scorer{
		tiers: tiers,
		unit:  new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil),
	}
}

// Tiers 返回计分使用的等级表
func (s *Scorer) Tiers() *TierTable {
	return s.tiers
}

// WholeTokens 将最小单位余额换算为整币，舍去小数部分
func (s *Scorer) WholeTokens(balance *big.Int) uint64 {
	if balance == nil || balance.Sign() <= 0 {
		return 0
	}
	whole := new(big.Int).Quo(balance, s.unit)
	if !whole.IsUint64() {
		return math.MaxUint64
	}
	return whole.Uint64()
}

// Units 将整币换算为最小单位
func (s *Scorer) Units(whole uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(whole), s.unit)
}

// TotalOwned 持有藏品总数，只统计合法等级下标，溢出时取上限
func (s *Scorer) TotalOwned(counts []uint64) uint64 {
	var total uint64
	for index, count := range counts {
		if index == 0 || index >= s.tiers.MaxTier() {
			continue
		}
		total = addSaturating(total, count)
	}
	return total
}

// CalcRankingScore 计算排行榜分数，分数越大排名越靠前
// 规则：score = Σ 持有数量 * 等级分值 + 整币余额
func (s *Scorer) CalcRankingScore(p *types.Participant) *types.ScoredEntry {
	entry := &types.ScoredEntry{
		Address:      p.Address,
		TokenBalance: new(big.Int),
	}
	if p.TokenBalance != nil {
		entry.TokenBalance.Set(p.TokenBalance)
	}

	for index, count := range p.OwnershipCounts {
		if index == 0 || index >= s.tiers.MaxTier() {
			continue
		}
		entry.NFTPoints = addSaturating(entry.NFTPoints, mulSaturating(count, s.tiers.Points(index)))
	}
	entry.NFTCount = s.TotalOwned(p.OwnershipCounts)
	entry.DisplayNFTCount = entry.NFTPoints / 10
	entry.TokenPoints = s.WholeTokens(p.TokenBalance)
	entry.Score = addSaturating(entry.NFTPoints, entry.TokenPoints)
	return entry
}

func addSaturating(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func mulSaturating(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

package types

import "math/big"

// Participant 表示一个参与排行的钱包地址及其链上状态
// OwnershipCounts 以藏品等级为下标，下标 0 不使用
type Participant struct {
	Address         string
	TokenBalance    *big.Int
	OwnershipCounts []uint64
}

// ScoredEntry 表示排行榜中的一项，每次查询时重新计算，不落库
// Score = NFTPoints + TokenPoints
// NFTCount 为持有藏品总数，DisplayNFTCount 为旧版展示口径 NFTPoints/10，二者不可混用
type ScoredEntry struct {
	Address         string
	TokenBalance    *big.Int
	NFTCount        uint64
	DisplayNFTCount uint64
	NFTPoints       uint64
	TokenPoints     uint64
	Score           uint64
}

// Tier 藏品等级：分值用于计分，Cost 为兑换所需的整币数量
type Tier struct {
	Index  int
	Name   string
	Points uint64
	Cost   uint64
}

// Holder 代币持有人
type Holder struct {
	Address string
	Balance *big.Int
}

// Reward 一笔奖励发放
type Reward struct {
	Address string
	Amount  *big.Int
}

// Mint 一次藏品兑换的结果
type Mint struct {
	TokenID uint64
	Tier    int
	URI     string
}

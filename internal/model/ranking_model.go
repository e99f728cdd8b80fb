package model

import (
	"context"
	"fmt"

	"token_leaderboard/internal/types"
)

// RankingModel 绑定一对代币 / 藏品账本，只读
type RankingModel struct {
	Token       TokenSource
	Collectible CollectibleSource
}

func NewRankingModel(token TokenSource, collectible CollectibleSource) *RankingModel {
	return &RankingModel{Token: token, Collectible: collectible}
}

// ListAddresses 参与排行的全部地址，顺序为首次领取代币的顺序
func (m *RankingModel) ListAddresses(ctx context.Context) ([]string, error) {
	addresses, err := m.Token.KnownAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate known addresses: %w", err)
	}
	return addresses, nil
}

// GetParticipant 获取指定地址的代币余额与各等级藏品数量
func (m *RankingModel) GetParticipant(ctx context.Context, address string) (*types.Participant, error) {
	balance, err := m.Token.BalanceOf(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", address, err)
	}
	counts, err := m.Collectible.OwnershipCount(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ownership count of %s: %w", address, err)
	}
	return &types.Participant{
		Address:         address,
		TokenBalance:    balance,
		OwnershipCounts: counts,
	}, nil
}

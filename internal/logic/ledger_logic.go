package logic

import (
	"context"
	"math/big"

	"token_leaderboard/internal/model"
	"token_leaderboard/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// LedgerLogic 代币 / 藏品账本操作，始终作用于排行榜当前绑定的合约
// InitialSupply 为每个代币合约首次启用时发行给管理员的数量，nil 表示不发行
type LedgerLogic struct {
	Ledgers       *model.LedgerFactory
	Ranking       *RankingLogic
	InitialSupply *big.Int
}

func NewLedgerLogic(ledgers *model.LedgerFactory, ranking *RankingLogic, initialSupply *big.Int) *LedgerLogic {
	return &LedgerLogic{Ledgers: ledgers, Ranking: ranking, InitialSupply: initialSupply}
}

func (l *LedgerLogic) models() (*model.TokenModel, *model.CollectibleModel) {
	token, collectible := l.Ranking.Collaborators()
	return l.Ledgers.Token(token, collectible), l.Ledgers.Collectible(collectible)
}

func (l *LedgerLogic) ClaimTokens(ctx context.Context, caller string, amount *big.Int) error {
	token, _ := l.models()
	if err := token.Claim(ctx, caller, amount); err != nil {
		return err
	}
	logx.WithContext(ctx).Infof("tokens claimed: address=%s amount=%s", caller, amount)
	return nil
}

func (l *LedgerLogic) RewardTokens(ctx context.Context, caller string, rewards []types.Reward) error {
	token, _ := l.models()
	if err := token.Reward(ctx, caller, rewards); err != nil {
		return err
	}
	logx.WithContext(ctx).Infof("tokens rewarded: recipients=%d", len(rewards))
	return nil
}

func (l *LedgerLogic) BalanceOf(ctx context.Context, address string) (*big.Int, error) {
	token, _ := l.models()
	return token.BalanceOf(ctx, address)
}

func (l *LedgerLogic) Holders(ctx context.Context) ([]types.Holder, error) {
	token, _ := l.models()
	return token.Holders(ctx)
}

// ClaimCollectible 用代币兑换一个指定等级的藏品
func (l *LedgerLogic) ClaimCollectible(ctx context.Context, caller string, tier int) (*types.Mint, error) {
	token, collectible := l.models()
	mint, err := collectible.Claim(ctx, token, caller, tier)
	if err != nil {
		return nil, err
	}
	logx.WithContext(ctx).Infof("collectible minted: address=%s tier=%d tokenId=%d", caller, mint.Tier, mint.TokenID)
	return mint, nil
}

func (l *LedgerLogic) OwnershipCount(ctx context.Context, address string) ([]uint64, error) {
	_, collectible := l.models()
	return collectible.OwnershipCount(ctx, address)
}

// SeedInitialSupply 向当前代币合约发行初始供应量，重复调用不会重复发行
func (l *LedgerLogic) SeedInitialSupply(ctx context.Context) error {
	if l.InitialSupply == nil || l.InitialSupply.Sign() <= 0 {
		return nil
	}
	token, _ := l.models()
	applied, err := token.Seed(ctx, l.InitialSupply)
	if err != nil {
		return err
	}
	if applied {
		logx.WithContext(ctx).Infof("initial supply minted: token=%s amount=%s", token.Contract(), l.InitialSupply)
	}
	return nil
}

func (l *LedgerLogic) Burner(ctx context.Context) (string, error) {
	token, _ := l.models()
	return token.Burner(ctx)
}

func (l *LedgerLogic) SetBurner(ctx context.Context, caller, burner string) error {
	token, _ := l.models()
	if err := token.SetBurner(ctx, caller, burner); err != nil {
		return err
	}
	logx.WithContext(ctx).Infof("token burner updated: token=%s burner=%s", token.Contract(), burner)
	return nil
}

func (l *LedgerLogic) SetBaseURI(ctx context.Context, caller, uri string) error {
	_, collectible := l.models()
	if err := collectible.SetBaseURI(ctx, caller, uri); err != nil {
		return err
	}
	logx.WithContext(ctx).Infof("collectible base uri updated: collectible=%s uri=%s", collectible.Contract(), uri)
	return nil
}

func (l *LedgerLogic) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	_, collectible := l.models()
	return collectible.TokenURI(ctx, tokenID)
}

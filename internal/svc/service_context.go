package svc

import (
	"context"
	"math/big"

	"token_leaderboard/internal/config"
	"token_leaderboard/internal/logic"
	"token_leaderboard/internal/model"

	"github.com/go-redis/redis/v8"
)

type ServiceContext struct {
	Config       config.Config
	RedisClient  *redis.Client
	Ledgers      *model.LedgerFactory
	RankingLogic *logic.RankingLogic
	LedgerLogic  *logic.LedgerLogic
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
	scorer := model.NewScorer(c.Collectible.TierTable(), c.Token.Decimals)
	ledgers := &model.LedgerFactory{
		RedisClient: redisClient,
		Owner:       c.Owner,
		Scorer:      scorer,
		BaseURI:     c.Collectible.BaseURI,
	}
	resolve := func(tokenContract, collectibleContract string) *model.RankingModel {
		return model.NewRankingModel(
			ledgers.Token(tokenContract, collectibleContract),
			ledgers.Collectible(collectibleContract),
		)
	}
	rankingLogic, err := logic.NewRankingLogic(c.Owner, c.TokenContract, c.CollectibleContract,
		scorer, resolve, c.Ranking.LookupWorkers)
	if err != nil {
		return nil, err
	}
	var initialSupply *big.Int
	if c.Token.InitialSupply > 0 {
		initialSupply = scorer.Units(c.Token.InitialSupply)
	}
	ledgerLogic := logic.NewLedgerLogic(ledgers, rankingLogic, initialSupply)
	if err := ledgerLogic.SeedInitialSupply(context.Background()); err != nil {
		return nil, err
	}

	return &ServiceContext{
		Config:       c,
		RedisClient:  redisClient,
		Ledgers:      ledgers,
		RankingLogic: rankingLogic,
		LedgerLogic:  ledgerLogic,
	}, nil
}

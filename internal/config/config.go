package config

import (
	"token_leaderboard/internal/model"
	"token_leaderboard/internal/types"

	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf
	Auth struct {
		AccessSecret string
		AccessExpire int64 `json:",default=86400"`
	}
	Redis               RedisConf
	Owner               string
	TokenContract       string
	CollectibleContract string
	Token               TokenConf
	Collectible         CollectibleConf
	Ranking             RankingConf
}

type RedisConf struct {
	Addr     string `json:",default=127.0.0.1:6379"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}

// InitialSupply 以整币计，0 表示不发行
type TokenConf struct {
	Decimals      int    `json:",default=18"`
	InitialSupply uint64 `json:",default=0"`
}

type CollectibleConf struct {
	MaxTier int        `json:",default=10"`
	BaseURI string     `json:",optional"`
	Tiers   []TierConf `json:",optional"`
}

type TierConf struct {
	Index  int
	Name   string `json:",optional"`
	Points uint64
	Cost   uint64 `json:",optional"`
}

type RankingConf struct {
	LookupWorkers int `json:",default=16"`
	DefaultLimit  int `json:",default=10"`
	MaxLimit      int `json:",default=100"`
}

// TierTable 未配置等级时使用铜 / 银 / 金默认表
func (c CollectibleConf) TierTable() *model.TierTable {
	if len(c.Tiers) == 0 {
		return model.NewTierTable(c.MaxTier, model.DefaultTiers)
	}
	tiers := make([]types.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, types.Tier{
			Index:  t.Index,
			Name:   t.Name,
			Points: t.Points,
			Cost:   t.Cost,
		})
	}
	return model.NewTierTable(c.MaxTier, tiers)
}

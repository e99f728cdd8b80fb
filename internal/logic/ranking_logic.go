package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"token_leaderboard/internal/model"
	"token_leaderboard/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

// SourceResolver 根据合约地址创建对应的只读账本
type SourceResolver func(tokenContract, collectibleContract string) *model.RankingModel

// RankingLogic 负责排行榜的业务逻辑
// 合约地址可由管理员在运行时切换，读写通过 mu 保护
type RankingLogic struct {
	owner   string
	scorer  *model.Scorer
	resolve SourceResolver
	workers int

	mu                  sync.RWMutex
	tokenContract       string
	collectibleContract string
	ranking             *model.RankingModel
}

type indexedEntry struct {
	index int
	entry *types.ScoredEntry
}

func NewRankingLogic(owner, tokenContract, collectibleContract string, scorer *model.Scorer,
	resolve SourceResolver, workers int) (*RankingLogic, error) {
	owner, err := types.NormalizeAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	tokenContract, err = types.NormalizeAddress(tokenContract)
	if err != nil {
		return nil, fmt.Errorf("token contract: %w", err)
	}
	collectibleContract, err = types.NormalizeAddress(collectibleContract)
	if err != nil {
		return nil, fmt.Errorf("collectible contract: %w", err)
	}

	return &RankingLogic{
		owner:               owner,
		scorer:              scorer,
		resolve:             resolve,
		workers:             workers,
		tokenContract:       tokenContract,
		collectibleContract: collectibleContract,
		ranking:             resolve(tokenContract, collectibleContract),
	}, nil
}

// Owner 管理员地址
func (l *RankingLogic) Owner() string {
	return l.owner
}

// Collaborators 当前使用的代币合约与藏品合约地址
func (l *RankingLogic) Collaborators() (tokenContract, collectibleContract string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tokenContract, l.collectibleContract
}

// GetLeaderboard 计算全部参与者的分数，按分数降序返回前 limit 名
// 分数相同时保持首次领取代币的顺序；任一地址读取失败则整体失败
func (l *RankingLogic) GetLeaderboard(ctx context.Context, limit int) ([]*types.ScoredEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", types.ErrInvalidArgument, limit)
	}

	l.mu.RLock()
	ranking := l.ranking
	l.mu.RUnlock()

	addresses, err := ranking.ListAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCollaboratorUnavailable, err)
	}
	if len(addresses) == 0 {
		return []*types.ScoredEntry{}, nil
	}

	entries, err := mr.MapReduce(func(source chan<- int) {
		for i := range addresses {
			source <- i
		}
	}, func(i int, writer mr.Writer[indexedEntry], cancel func(error)) {
		participant, err := ranking.GetParticipant(ctx, addresses[i])
		if err != nil {
			cancel(err)
			return
		}
		writer.Write(indexedEntry{index: i, entry: l.scorer.CalcRankingScore(participant)})
	}, func(pipe <-chan indexedEntry, writer mr.Writer[[]*types.ScoredEntry], cancel func(error)) {
		list := make([]*types.ScoredEntry, len(addresses))
		for item := range pipe {
			list[item.index] = item.entry
		}
		writer.Write(list)
	}, mr.WithContext(ctx), mr.WithWorkers(l.workers))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		logx.WithContext(ctx).Errorf("compute leaderboard failed: %v", err)
		return nil, fmt.Errorf("%w: %w", types.ErrCollaboratorUnavailable, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// UpdateCollaboratorAddresses 切换代币 / 藏品合约，仅管理员可调用，不重算历史数据
func (l *RankingLogic) UpdateCollaboratorAddresses(ctx context.Context, caller, tokenContract, collectibleContract string) error {
	if !types.SameAddress(caller, l.owner) {
		return fmt.Errorf("%w: %s is not the leaderboard owner", types.ErrNotAuthorized, caller)
	}
	tokenContract, err := types.NormalizeAddress(tokenContract)
	if err != nil {
		return fmt.Errorf("token contract: %w", err)
	}
	collectibleContract, err = types.NormalizeAddress(collectibleContract)
	if err != nil {
		return fmt.Errorf("collectible contract: %w", err)
	}

	ranking := l.resolve(tokenContract, collectibleContract)

	l.mu.Lock()
	l.tokenContract = tokenContract
	l.collectibleContract = collectibleContract
	l.ranking = ranking
	l.mu.Unlock()

	logx.WithContext(ctx).Infof("collaborators updated: token=%s collectible=%s", tokenContract, collectibleContract)
	return nil
}

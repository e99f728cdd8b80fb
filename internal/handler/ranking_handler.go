package handler

import (
	"net/http"

	"token_leaderboard/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type GetLeaderboardReq struct {
	Limit int `form:"limit,optional"`
}

type LeaderboardItem struct {
	Rank            int    `json:"rank"`
	Address         string `json:"address"`
	TokenBalance    string `json:"tokenBalance"`
	NftCount        uint64 `json:"nftCount"`
	DisplayNftCount uint64 `json:"displayNftCount"`
	NftPoints       uint64 `json:"nftPoints"`
	TokenPoints     uint64 `json:"tokenPoints"`
	Score           uint64 `json:"score"`
}

type GetLeaderboardResp struct {
	List []LeaderboardItem `json:"list"`
}

type UpdateCollaboratorsReq struct {
	TokenContract       string `json:"tokenContract"`
	CollectibleContract string `json:"collectibleContract"`
}

type CollaboratorsResp struct {
	Owner               string `json:"owner"`
	TokenContract       string `json:"tokenContract"`
	CollectibleContract string `json:"collectibleContract"`
}

func GetLeaderboardHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GetLeaderboardReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		// 未传 limit 时使用默认值，显式传入的非法值交给业务层校验
		limit := req.Limit
		if !r.URL.Query().Has("limit") {
			limit = svcCtx.Config.Ranking.DefaultLimit
		}
		if maxLimit := svcCtx.Config.Ranking.MaxLimit; maxLimit > 0 && limit > maxLimit {
			limit = maxLimit
		}

		entries, err := svcCtx.RankingLogic.GetLeaderboard(r.Context(), limit)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		resp := GetLeaderboardResp{List: make([]LeaderboardItem, 0, len(entries))}
		for i, e := range entries {
			resp.List = append(resp.List, LeaderboardItem{
				Rank:            i + 1,
				Address:         e.Address,
				TokenBalance:    e.TokenBalance.String(),
				NftCount:        e.NFTCount,
				DisplayNftCount: e.DisplayNFTCount,
				NftPoints:       e.NFTPoints,
				TokenPoints:     e.TokenPoints,
				Score:           e.Score,
			})
		}
		httpx.OkJsonCtx(r.Context(), w, &resp)
	}
}

func GetCollaboratorsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, collaborators(svcCtx))
	}
}

func UpdateCollaboratorsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateCollaboratorsReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		err = svcCtx.RankingLogic.UpdateCollaboratorAddresses(r.Context(), caller, req.TokenContract, req.CollectibleContract)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		// 新代币合约首次启用时发行初始供应量
		if err := svcCtx.LedgerLogic.SeedInitialSupply(r.Context()); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, collaborators(svcCtx))
	}
}

func collaborators(svcCtx *svc.ServiceContext) *CollaboratorsResp {
	token, collectible := svcCtx.RankingLogic.Collaborators()
	return &CollaboratorsResp{
		Owner:               svcCtx.RankingLogic.Owner(),
		TokenContract:       token,
		CollectibleContract: collectible,
	}
}

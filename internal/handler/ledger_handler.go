package handler

import (
	"net/http"

	"token_leaderboard/internal/svc"
	"token_leaderboard/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type AddressReq struct {
	Address string `path:"address"`
}

type BalanceResp struct {
	Address     string `json:"address"`
	Balance     string `json:"balance"`
	WholeTokens uint64 `json:"wholeTokens"`
}

type HolderItem struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type HoldersResp struct {
	List []HolderItem `json:"list"`
}

type ClaimTokensReq struct {
	Amount string `json:"amount"`
}

type RewardItem struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type RewardTokensReq struct {
	Recipients []RewardItem `json:"recipients"`
}

type ClaimCollectibleReq struct {
	Tier int `json:"tier"`
}

type ClaimCollectibleResp struct {
	TokenId uint64 `json:"tokenId"`
	Tier    int    `json:"tier"`
	Uri     string `json:"uri"`
}

type OwnershipResp struct {
	Address string   `json:"address"`
	Counts  []uint64 `json:"counts"`
	Total   uint64   `json:"total"`
}

type TokenIdReq struct {
	TokenId uint64 `path:"tokenId"`
}

type TokenURIResp struct {
	TokenId uint64 `json:"tokenId"`
	Uri     string `json:"uri"`
}

type SetBaseURIReq struct {
	BaseUri string `json:"baseUri"`
}

type SetBurnerReq struct {
	Burner string `json:"burner"`
}

type BurnerResp struct {
	Burner string `json:"burner"`
}

type SuccessResp struct {
	Success bool `json:"success"`
}

func GetBalanceHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddressReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		balance, err := svcCtx.LedgerLogic.BalanceOf(r.Context(), req.Address)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		address, _ := types.NormalizeAddress(req.Address)
		httpx.OkJsonCtx(r.Context(), w, &BalanceResp{
			Address:     address,
			Balance:     balance.String(),
			WholeTokens: svcCtx.Ledgers.Scorer.WholeTokens(balance),
		})
	}
}

func GetHoldersHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holders, err := svcCtx.LedgerLogic.Holders(r.Context())
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		resp := HoldersResp{List: make([]HolderItem, 0, len(holders))}
		for _, h := range holders {
			resp.List = append(resp.List, HolderItem{Address: h.Address, Balance: h.Balance.String()})
		}
		httpx.OkJsonCtx(r.Context(), w, &resp)
	}
}

func ClaimTokensHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClaimTokensReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		amount, err := types.ParseAmount(req.Amount)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		if err := svcCtx.LedgerLogic.ClaimTokens(r.Context(), caller, amount); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &SuccessResp{Success: true})
	}
}

func RewardTokensHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RewardTokensReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		rewards := make([]types.Reward, 0, len(req.Recipients))
		for _, item := range req.Recipients {
			amount, err := types.ParseAmount(item.Amount)
			if err != nil {
				httpx.ErrorCtx(r.Context(), w, err)
				return
			}
			rewards = append(rewards, types.Reward{Address: item.Address, Amount: amount})
		}
		if err := svcCtx.LedgerLogic.RewardTokens(r.Context(), caller, rewards); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &SuccessResp{Success: true})
	}
}

func GetOwnershipHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddressReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		counts, err := svcCtx.LedgerLogic.OwnershipCount(r.Context(), req.Address)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		address, _ := types.NormalizeAddress(req.Address)
		httpx.OkJsonCtx(r.Context(), w, &OwnershipResp{
			Address: address,
			Counts:  counts,
			Total:   svcCtx.Ledgers.Scorer.TotalOwned(counts),
		})
	}
}

func ClaimCollectibleHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClaimCollectibleReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		mint, err := svcCtx.LedgerLogic.ClaimCollectible(r.Context(), caller, req.Tier)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &ClaimCollectibleResp{
			TokenId: mint.TokenID,
			Tier:    mint.Tier,
			Uri:     mint.URI,
		})
	}
}

func GetTokenURIHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenIdReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		uri, err := svcCtx.LedgerLogic.TokenURI(r.Context(), req.TokenId)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &TokenURIResp{TokenId: req.TokenId, Uri: uri})
	}
}

func SetBaseURIHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetBaseURIReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		if err := svcCtx.LedgerLogic.SetBaseURI(r.Context(), caller, req.BaseUri); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &SuccessResp{Success: true})
	}
}

func GetBurnerHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		burner, err := svcCtx.LedgerLogic.Burner(r.Context())
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &BurnerResp{Burner: burner})
	}
}

func SetBurnerHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetBurnerReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, badRequest(err))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		if err := svcCtx.LedgerLogic.SetBurner(r.Context(), caller, req.Burner); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, &SuccessResp{Success: true})
	}
}

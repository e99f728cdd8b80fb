package handler

import (
	"net/http"

	"token_leaderboard/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{Method: http.MethodGet, Path: "/leaderboard", Handler: GetLeaderboardHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/collaborators", Handler: GetCollaboratorsHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/token/holders", Handler: GetHoldersHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/token/balance/:address", Handler: GetBalanceHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/token/burner", Handler: GetBurnerHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/collectible/:address", Handler: GetOwnershipHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/collectible/token/:tokenId", Handler: GetTokenURIHandler(serverCtx)},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{Method: http.MethodPut, Path: "/admin/collaborators", Handler: UpdateCollaboratorsHandler(serverCtx)},
			{Method: http.MethodPut, Path: "/admin/token/burner", Handler: SetBurnerHandler(serverCtx)},
			{Method: http.MethodPut, Path: "/admin/collectible/base-uri", Handler: SetBaseURIHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/token/claim", Handler: ClaimTokensHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/token/reward", Handler: RewardTokensHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/collectible/claim", Handler: ClaimCollectibleHandler(serverCtx)},
		},
		rest.WithJwt(serverCtx.Config.Auth.AccessSecret),
	)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authhandler "github.com/zeromicro/go-zero/rest/handler"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/go-zero/rest/pathvar"

	"token_leaderboard/internal/config"
	"token_leaderboard/internal/svc"
	"token_leaderboard/internal/types"
)

const (
	owner       = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	user1       = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	user2       = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	token       = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	collectible = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
)

func TestMain(m *testing.M) {
	httpx.SetErrorHandler(ErrorHandler)
	os.Exit(m.Run())
}

const testAccessSecret = "leaderboard-test-secret"

func newTestServiceContext(t *testing.T) *svc.ServiceContext {
	t.Helper()
	return newTestServiceContextWith(t, func(*config.Config) {})
}

func newTestServiceContextWith(t *testing.T, configure func(*config.Config)) *svc.ServiceContext {
	t.Helper()
	server := miniredis.RunT(t)

	var c config.Config
	c.Auth.AccessSecret = testAccessSecret
	c.Redis.Addr = server.Addr()
	c.Owner = owner
	c.TokenContract = token
	c.CollectibleContract = collectible
	c.Token.Decimals = 18
	c.Collectible.MaxTier = 10
	c.Ranking = config.RankingConf{LookupWorkers: 4, DefaultLimit: 10, MaxLimit: 100}
	configure(&c)

	svcCtx, err := svc.NewServiceContext(c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svcCtx.RedisClient.Close() })
	return svcCtx
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func withCaller(r *http.Request, caller string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerClaim, caller))
}

func signToken(t *testing.T, secret, address string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat":       now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
		callerClaim: address,
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func jsonRequest(method, target string, body any) *http.Request {
	data, _ := json.Marshal(body)
	r := httptest.NewRequest(method, target, strings.NewReader(string(data)))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func seedScenario(t *testing.T, svcCtx *svc.ServiceContext) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svcCtx.LedgerLogic.ClaimTokens(ctx, user1, ether(100)))
	_, err := svcCtx.LedgerLogic.ClaimCollectible(ctx, user1, 1)
	require.NoError(t, err)
	require.NoError(t, svcCtx.LedgerLogic.ClaimTokens(ctx, user2, ether(500)))
	_, err = svcCtx.LedgerLogic.ClaimCollectible(ctx, user2, 3)
	require.NoError(t, err)
}

func TestGetLeaderboardHandler(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	seedScenario(t, svcCtx)

	w := httptest.NewRecorder()
	GetLeaderboardHandler(svcCtx)(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp GetLeaderboardResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.List, 2)

	assert.Equal(t, 1, resp.List[0].Rank)
	assert.Equal(t, user2, resp.List[0].Address)
	assert.Equal(t, uint64(250), resp.List[0].Score)
	assert.Equal(t, ether(200).String(), resp.List[0].TokenBalance)
	assert.Equal(t, uint64(1), resp.List[0].NftCount)
	assert.Equal(t, uint64(5), resp.List[0].DisplayNftCount)

	assert.Equal(t, 2, resp.List[1].Rank)
	assert.Equal(t, user1, resp.List[1].Address)
	assert.Equal(t, uint64(60), resp.List[1].Score)
}

func TestGetLeaderboardHandler_DefaultLimitAndEmpty(t *testing.T) {
	svcCtx := newTestServiceContext(t)

	w := httptest.NewRecorder()
	GetLeaderboardHandler(svcCtx)(w, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp GetLeaderboardResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.List)
	assert.Empty(t, resp.List)
}

func TestGetLeaderboardHandler_BadLimit(t *testing.T) {
	svcCtx := newTestServiceContext(t)

	for _, target := range []string{"/leaderboard?limit=0", "/leaderboard?limit=-3", "/leaderboard?limit=abc"} {
		w := httptest.NewRecorder()
		GetLeaderboardHandler(svcCtx)(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestUpdateCollaboratorsHandler(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	body := UpdateCollaboratorsReq{TokenContract: collectible, CollectibleContract: token}

	w := httptest.NewRecorder()
	UpdateCollaboratorsHandler(svcCtx)(w, jsonRequest(http.MethodPut, "/admin/collaborators", body))
	assert.Equal(t, http.StatusForbidden, w.Code, "missing caller claim")

	w = httptest.NewRecorder()
	UpdateCollaboratorsHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/collaborators", body), user1))
	assert.Equal(t, http.StatusForbidden, w.Code)

	wantToken, _ := types.NormalizeAddress(token)
	wantCollectible, _ := types.NormalizeAddress(collectible)
	current, _ := svcCtx.RankingLogic.Collaborators()
	assert.Equal(t, wantToken, current)

	w = httptest.NewRecorder()
	UpdateCollaboratorsHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/collaborators", body), owner))
	require.Equal(t, http.StatusOK, w.Code)

	var resp CollaboratorsResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, owner, resp.Owner)
	assert.Equal(t, wantCollectible, resp.TokenContract)
	assert.Equal(t, wantToken, resp.CollectibleContract)
}

func TestUpdateCollaboratorsHandler_SignedToken(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	body := UpdateCollaboratorsReq{TokenContract: collectible, CollectibleContract: token}
	protected := authhandler.Authorize(svcCtx.Config.Auth.AccessSecret)(UpdateCollaboratorsHandler(svcCtx))

	w := httptest.NewRecorder()
	protected.ServeHTTP(w, jsonRequest(http.MethodPut, "/admin/collaborators", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no token")

	r := jsonRequest(http.MethodPut, "/admin/collaborators", body)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "some-other-secret", owner))
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "wrong secret")

	r = jsonRequest(http.MethodPut, "/admin/collaborators", body)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testAccessSecret, user1))
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code, "signed but not owner")

	r = jsonRequest(http.MethodPut, "/admin/collaborators", body)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testAccessSecret, strings.ToLower(owner)))
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	current, _ := svcCtx.RankingLogic.Collaborators()
	assert.True(t, types.SameAddress(collectible, current))
}

func TestGetCollaboratorsHandler(t *testing.T) {
	svcCtx := newTestServiceContext(t)

	w := httptest.NewRecorder()
	GetCollaboratorsHandler(svcCtx)(w, httptest.NewRequest(http.MethodGet, "/collaborators", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp CollaboratorsResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, types.SameAddress(token, resp.TokenContract))
	assert.True(t, types.SameAddress(collectible, resp.CollectibleContract))
}

func TestClaimTokensAndBalance(t *testing.T) {
	svcCtx := newTestServiceContext(t)

	w := httptest.NewRecorder()
	ClaimTokensHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/token/claim",
		ClaimTokensReq{Amount: ether(42).String()}), user1))
	require.Equal(t, http.StatusOK, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/token/balance/"+user1, nil)
	r = pathvar.WithVars(r, map[string]string{"address": strings.ToLower(user1)})
	w = httptest.NewRecorder()
	GetBalanceHandler(svcCtx)(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp BalanceResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user1, resp.Address)
	assert.Equal(t, ether(42).String(), resp.Balance)
	assert.Equal(t, uint64(42), resp.WholeTokens)
}

func TestClaimTokensHandler_BadAmount(t *testing.T) {
	svcCtx := newTestServiceContext(t)

	for _, amount := range []string{"0", "-1", "1.5", "lots"} {
		w := httptest.NewRecorder()
		ClaimTokensHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/token/claim",
			ClaimTokensReq{Amount: amount}), user1))
		assert.Equal(t, http.StatusBadRequest, w.Code, amount)
	}
}

func TestRewardTokensHandler(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	body := RewardTokensReq{Recipients: []RewardItem{
		{Address: user1, Amount: ether(200).String()},
		{Address: user2, Amount: ether(200).String()},
	}}

	w := httptest.NewRecorder()
	RewardTokensHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/token/reward", body), user1))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	RewardTokensHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/token/reward", body), owner))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	GetHoldersHandler(svcCtx)(w, httptest.NewRequest(http.MethodGet, "/token/holders", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HoldersResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.List, 2)
	assert.Equal(t, user1, resp.List[0].Address)
	assert.Equal(t, ether(200).String(), resp.List[0].Balance)
	assert.Equal(t, user2, resp.List[1].Address)
}

func TestClaimCollectibleHandler(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	require.NoError(t, svcCtx.LedgerLogic.ClaimTokens(context.Background(), user1, ether(500)))

	w := httptest.NewRecorder()
	ClaimCollectibleHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/collectible/claim",
		ClaimCollectibleReq{Tier: 8}), user1))
	require.Equal(t, http.StatusOK, w.Code)

	var mint ClaimCollectibleResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mint))
	assert.Equal(t, uint64(1), mint.TokenId)
	assert.Equal(t, 8, mint.Tier)

	w = httptest.NewRecorder()
	ClaimCollectibleHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/collectible/claim",
		ClaimCollectibleReq{Tier: 1}), user1))
	assert.Equal(t, http.StatusConflict, w.Code, "balance spent on gold")

	w = httptest.NewRecorder()
	ClaimCollectibleHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/collectible/claim",
		ClaimCollectibleReq{Tier: 10}), user1))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r := pathvar.WithVars(httptest.NewRequest(http.MethodGet, "/collectible/"+user1, nil),
		map[string]string{"address": user1})
	w = httptest.NewRecorder()
	GetOwnershipHandler(svcCtx)(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var owned OwnershipResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &owned))
	require.Len(t, owned.Counts, 10)
	assert.Equal(t, uint64(1), owned.Counts[8])
	assert.Equal(t, uint64(1), owned.Total)
}

func TestInitialSupplySeededForOwner(t *testing.T) {
	svcCtx := newTestServiceContextWith(t, func(c *config.Config) {
		c.Token.InitialSupply = 10000
	})
	ctx := context.Background()

	balance, err := svcCtx.LedgerLogic.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(ether(10000)))

	holders, err := svcCtx.LedgerLogic.Holders(ctx)
	require.NoError(t, err)
	assert.Empty(t, holders)

	// 切换到新代币合约时同样发行一次
	body := UpdateCollaboratorsReq{TokenContract: user2, CollectibleContract: collectible}
	w := httptest.NewRecorder()
	UpdateCollaboratorsHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/collaborators", body), owner))
	require.Equal(t, http.StatusOK, w.Code)

	balance, err = svcCtx.LedgerLogic.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(ether(10000)))

	require.NoError(t, svcCtx.LedgerLogic.SeedInitialSupply(ctx))
	balance, err = svcCtx.LedgerLogic.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(ether(10000)), "seeded once per contract")
}

func TestSetBaseURIAndTokenURIHandlers(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	body := SetBaseURIReq{BaseUri: "https://newexample.com/nft/"}

	w := httptest.NewRecorder()
	SetBaseURIHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/collectible/base-uri", body), user1))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	SetBaseURIHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/collectible/base-uri", body), owner))
	require.Equal(t, http.StatusOK, w.Code)

	tokenURI := func(id string) *httptest.ResponseRecorder {
		r := pathvar.WithVars(httptest.NewRequest(http.MethodGet, "/collectible/token/"+id, nil),
			map[string]string{"tokenId": id})
		w := httptest.NewRecorder()
		GetTokenURIHandler(svcCtx)(w, r)
		return w
	}
	assert.Equal(t, http.StatusNotFound, tokenURI("1").Code)

	seedScenario(t, svcCtx)

	w = tokenURI("2")
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenURIResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.TokenId)
	assert.Equal(t, "https://newexample.com/nft/2", resp.Uri)

	assert.Equal(t, http.StatusNotFound, tokenURI("3").Code)
	assert.Equal(t, http.StatusBadRequest, tokenURI("abc").Code)
}

func TestSetBurnerHandler(t *testing.T) {
	svcCtx := newTestServiceContext(t)
	require.NoError(t, svcCtx.LedgerLogic.ClaimTokens(context.Background(), user1, ether(50)))

	w := httptest.NewRecorder()
	SetBurnerHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/token/burner",
		SetBurnerReq{Burner: user2}), user1))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	SetBurnerHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPut, "/admin/token/burner",
		SetBurnerReq{Burner: user2}), owner))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	GetBurnerHandler(svcCtx)(w, httptest.NewRequest(http.MethodGet, "/token/burner", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp BurnerResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user2, resp.Burner)

	w = httptest.NewRecorder()
	ClaimCollectibleHandler(svcCtx)(w, withCaller(jsonRequest(http.MethodPost, "/collectible/claim",
		ClaimCollectibleReq{Tier: 1}), user1))
	assert.Equal(t, http.StatusForbidden, w.Code, "collectible contract is no longer the burner")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: types.ErrInvalidArgument, code: http.StatusBadRequest},
		{err: types.ErrInvalidTier, code: http.StatusBadRequest},
		{err: fmt.Errorf("wrap: %w", types.ErrNotAuthorized), code: http.StatusForbidden},
		{err: types.ErrInsufficientFunds, code: http.StatusConflict},
		{err: fmt.Errorf("%w: token 9", types.ErrNotFound), code: http.StatusNotFound},
		{err: fmt.Errorf("%w: %w", types.ErrCollaboratorUnavailable, errors.New("down")), code: http.StatusServiceUnavailable},
		{err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, body := ErrorHandler(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		resp, ok := body.(*ErrorResp)
		require.True(t, ok)
		assert.Equal(t, tt.code, resp.Code)
		assert.Equal(t, tt.err.Error(), resp.Message)
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"token_leaderboard/internal/types"
)

// callerClaim JWT 中携带钱包地址的字段，go-zero 鉴权中间件会把 claim 写入 context
const callerClaim = "address"

type ErrorResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler 业务错误到 HTTP 状态码的映射，通过 httpx.SetErrorHandler 注册
func ErrorHandler(err error) (int, any) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, types.ErrNotAuthorized):
		code = http.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, types.ErrInsufficientFunds):
		code = http.StatusConflict
	case errors.Is(err, types.ErrCollaboratorUnavailable):
		code = http.StatusServiceUnavailable
	}
	return code, &ErrorResp{Code: code, Message: err.Error()}
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", types.ErrInvalidArgument, err)
}

func callerFromRequest(r *http.Request) (string, error) {
	caller, ok := r.Context().Value(callerClaim).(string)
	if !ok || caller == "" {
		return "", fmt.Errorf("%w: missing %s claim", types.ErrNotAuthorized, callerClaim)
	}
	return caller, nil
}

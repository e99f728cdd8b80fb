package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 参数非法，例如 limit <= 0 或地址格式错误
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotAuthorized 调用方无权执行管理操作
	ErrNotAuthorized = errors.New("not authorized")

	// ErrCollaboratorUnavailable 余额或藏品数量读取失败
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrInsufficientFunds 余额不足以兑换藏品
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound 查询的藏品不存在
	ErrNotFound = errors.New("not found")

	// ErrInvalidTier 藏品等级不存在或不可兑换
	ErrInvalidTier = fmt.Errorf("%w: invalid tier", ErrInvalidArgument)
)

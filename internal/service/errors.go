package service

import (
	"Beacon/internal/fetcher"
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrPlatformNotFound   = errors.New("平台不存在")
	ErrPlatformNameExist  = errors.New("平台名称已存在")
	ErrPlatformInactive   = errors.New("平台已停用")
	ErrFollowersInvalid   = errors.New("粉丝数无效")
	ErrGrowthInconsistent = errors.New("增长数据不一致")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:              BadRequest,
	ErrPlatformNotFound:          NotFound,
	ErrPlatformNameExist:         Conflict,
	ErrPlatformInactive:          BadRequest,
	ErrFollowersInvalid:          BadRequest,
	ErrGrowthInconsistent:        InternalServerError,
	fetcher.ErrNoFetcherAssigned: BadRequest,
	fetcher.ErrUnknownSource:     BadRequest,
	UnExpectedError:              InternalServerError,
}

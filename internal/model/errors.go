package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConfigurationError 配置缺失或非法（启动/运行前置校验失败，致命）
type ConfigurationError struct {
	Fields []string // 缺失或非法的配置项名
	Reason string   // 补充说明
}

func (e *ConfigurationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("配置校验失败(%s): %s", strings.Join(e.Fields, ","), e.Reason)
	}
	return fmt.Sprintf("配置校验失败: %s", e.Reason)
}

// AuthenticationError 上游鉴权失败（401/403，整次运行立即终止）
type AuthenticationError struct {
	Source SourceType // 出错的上游接口
	Status int        // HTTP状态码（非HTTP场景为0）
	Err    error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s 鉴权失败(状态码%d): %v", e.Source, e.Status, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RateLimitError 上游限流（429），RetryAfter为上游给出的重试提示（0表示未给）
type RateLimitError struct {
	Source     SourceType
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s 触发限流(建议%s后重试): %v", e.Source, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s 触发限流: %v", e.Source, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// TransientNetworkError 瞬时网络故障（超时/连接失败/5xx），重试耗尽后该接口降级为空表
type TransientNetworkError struct {
	Source SourceType
	Err    error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s 瞬时网络故障: %v", e.Source, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

// UpstreamSchemaError 上游响应缺少必需字段（契约漂移，不重试直接上报）
type UpstreamSchemaError struct {
	Source SourceType
	Field  string // 缺失的字段名
	Err    error
}

func (e *UpstreamSchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s 响应缺少必需字段 %s: %v", e.Source, e.Field, e.Err)
	}
	return fmt.Sprintf("%s 响应结构异常: %v", e.Source, e.Err)
}

func (e *UpstreamSchemaError) Unwrap() error { return e.Err }

// 错误种类标签（日志与指标共用）
const (
	KindConfiguration    = "configuration"
	KindAuthentication   = "authentication"
	KindRateLimit        = "rate_limit"
	KindTransientNetwork = "transient_network"
	KindUpstreamSchema   = "upstream_schema"
	KindOther            = "other"
)

// ErrorKind 判定错误所属种类，未知错误归为other
func ErrorKind(err error) string {
	var (
		confErr   *ConfigurationError
		authErr   *AuthenticationError
		rateErr   *RateLimitError
		netErr    *TransientNetworkError
		schemaErr *UpstreamSchemaError
	)
	switch {
	case errors.As(err, &confErr):
		return KindConfiguration
	case errors.As(err, &authErr):
		return KindAuthentication
	case errors.As(err, &rateErr):
		return KindRateLimit
	case errors.As(err, &netErr):
		return KindTransientNetwork
	case errors.As(err, &schemaErr):
		return KindUpstreamSchema
	default:
		return KindOther
	}
}

// IsFatal 配置与鉴权错误终止整次运行，其余错误仅降级对应接口的产出表
func IsFatal(err error) bool {
	kind := ErrorKind(err)
	return kind == KindConfiguration || kind == KindAuthentication
}

// IsRetryable 仅限流与瞬时网络故障值得在适配器内重试
func IsRetryable(err error) bool {
	kind := ErrorKind(err)
	return kind == KindRateLimit || kind == KindTransientNetwork
}

// RetryAfterHint 提取限流错误携带的重试提示，无提示返回0
func RetryAfterHint(err error) time.Duration {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.RetryAfter
	}
	return 0
}

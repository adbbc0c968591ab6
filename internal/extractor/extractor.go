// Package extractor 八张产出表的纯函数提取器。
// 共同约定：缺键整行跳过并记录原因，缺可选字段用文档化默认值兜底，
// 输出顺序严格跟随上游记录顺序，不做任何IO。
package extractor

import (
	"strconv"
	"time"
)

// 逐行丢弃原因
const (
	ReasonWrongRawType      = "wrong_raw_type"
	ReasonMissingItemID     = "missing_item_id"
	ReasonMissingCategoryID = "missing_category_id"
	ReasonMissingSellerID   = "missing_seller_id"
	ReasonMissingTxnID      = "missing_transaction_id"
	ReasonDuplicateKey      = "duplicate_key"
)

// parsePrice 十进制字符串转float64，空串或非法值返回0
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount 十进制字符串转int，空串或非法值返回0
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// 上游时间字符串的已知格式，按序尝试
var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
}

// parseTime 解析上游时间字符串，全部格式失败返回零值时间
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

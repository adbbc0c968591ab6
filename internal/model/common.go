package model

// SourceType 上游数据源类型枚举
type SourceType string

const (
	SourceBrowse   SourceType = "browse"   // Browse API：商品摘要搜索
	SourceFinding  SourceType = "finding"  // Finding API：关注数/价格/物流快照
	SourceTaxonomy SourceType = "taxonomy" // Taxonomy API：类目树与属性
)

// 八张产出表的固定表名
const (
	TableListings        = "listings"
	TableCategories      = "categories"
	TableSellers         = "sellers"
	TableTransactions    = "transactions"
	TableWatchCount      = "watch_count"
	TablePriceHistory    = "price_history"
	TableShippingOptions = "shipping_options"
	TableItemSpecifics   = "item_specifics"
)

// AllTables 按固定顺序返回八个表名（任何一次运行的产出都必须恰好覆盖这八个键）
func AllTables() []string {
	return []string{
		TableListings,
		TableCategories,
		TableSellers,
		TableTransactions,
		TableWatchCount,
		TablePriceHistory,
		TableShippingOptions,
		TableItemSpecifics,
	}
}

// RunState 流水线状态机状态
type RunState string

const (
	StateIdle             RunState = "idle"
	StateFetchingBrowse   RunState = "fetching_browse"
	StateFetchingFinding  RunState = "fetching_finding"
	StateFetchingTaxonomy RunState = "fetching_taxonomy"
	StateExtracting       RunState = "extracting"
	StateAssembled        RunState = "assembled"
	StateFailed           RunState = "failed"
)

// RawRecord 所有上游接口的原始记录通用结构
type RawRecord struct {
	Source SourceType  // 来源接口（browse/finding/taxonomy）
	ID     string      // 上游原生ID（itemId/categoryId）
	Data   interface{} // 上游原生数据（BrowseItem/FindingItem/TaxonomyCategoryRecord）
}

// RowSkip 单行丢弃记录（缺关键字段/键重复时整行跳过，原因落入运行报告）
type RowSkip struct {
	Table    string `json:"table"`     // 丢弃行所属表名
	RecordID string `json:"record_id"` // 能定位到的上游记录标识（可能为空）
	Reason   string `json:"reason"`    // 丢弃原因（missing_item_id/duplicate_key等）
}

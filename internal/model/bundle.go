package model

// TableBundle 单次运行产出的八张表（降级的表保留键位、内容为空）
type TableBundle struct {
	Listings        []*Listing        `json:"listings"`
	Categories      []*Category       `json:"categories"`
	Sellers         []*Seller         `json:"sellers"`
	Transactions    []*Transaction    `json:"transactions"`
	WatchCounts     []*WatchCount     `json:"watch_count"`
	PricePoints     []*PricePoint     `json:"price_history"`
	ShippingOptions []*ShippingOption `json:"shipping_options"`
	ItemSpecifics   []*ItemSpecific   `json:"item_specifics"`
}

func rows[T any](slice []T) []interface{} {
	res := make([]interface{}, len(slice))
	for i, v := range slice {
		res[i] = v
	}
	return res
}

// Tables 以固定八个表名为键返回各表行数据，空表对应空切片而非缺键
func (b *TableBundle) Tables() map[string][]interface{} {
	return map[string][]interface{}{
		TableListings:        rows(b.Listings),
		TableCategories:      rows(b.Categories),
		TableSellers:         rows(b.Sellers),
		TableTransactions:    rows(b.Transactions),
		TableWatchCount:      rows(b.WatchCounts),
		TablePriceHistory:    rows(b.PricePoints),
		TableShippingOptions: rows(b.ShippingOptions),
		TableItemSpecifics:   rows(b.ItemSpecifics),
	}
}

// RowCounts 各表行数（落库与响应摘要共用）
func (b *TableBundle) RowCounts() map[string]int {
	return map[string]int{
		TableListings:        len(b.Listings),
		TableCategories:      len(b.Categories),
		TableSellers:         len(b.Sellers),
		TableTransactions:    len(b.Transactions),
		TableWatchCount:      len(b.WatchCounts),
		TablePriceHistory:    len(b.PricePoints),
		TableShippingOptions: len(b.ShippingOptions),
		TableItemSpecifics:   len(b.ItemSpecifics),
	}
}

// TotalRows 八表合计行数
func (b *TableBundle) TotalRows() int {
	total := 0
	for _, n := range b.RowCounts() {
		total += n
	}
	return total
}

// RunReport 单次运行的降级与丢弃明细
type RunReport struct {
	Degraded map[string]string `json:"degraded"`  // 表名→降级原因（错误种类标签）
	Skips    []RowSkip         `json:"skips"`     // 逐行丢弃记录
	APICalls map[string]int    `json:"api_calls"` // 接口名→HTTP调用次数
}

// NewRunReport 构造空报告（map预初始化，避免调用方判空）
func NewRunReport() *RunReport {
	return &RunReport{
		Degraded: make(map[string]string),
		Skips:    make([]RowSkip, 0),
		APICalls: make(map[string]int),
	}
}

// MarkDegraded 将一组表标记为降级（同一接口失败会连带其全部产出表）
func (r *RunReport) MarkDegraded(tables []string, reason string) {
	for _, t := range tables {
		r.Degraded[t] = reason
	}
}

// AddSkips 追加逐行丢弃记录
func (r *RunReport) AddSkips(skips []RowSkip) {
	r.Skips = append(r.Skips, skips...)
}

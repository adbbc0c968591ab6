package model

// Finding 系接口的响应字段全部包在单元素数组里（上游历史格式），
// 解析时统一经 First 取首个元素。

// First 取Finding风格单元素数组的首个元素，空数组返回零值
func First[T any](arr []T) T {
	var zero T
	if len(arr) == 0 {
		return zero
	}
	return arr[0]
}

// FindingEnvelope findItemsByKeywords 最外层响应
type FindingEnvelope struct {
	Response []FindingResponse `json:"findItemsByKeywordsResponse"`
}

// FindingResponse 单次查询响应体
type FindingResponse struct {
	Ack          []string              `json:"ack"`              // Success/Warning/Failure
	Timestamp    []string              `json:"timestamp"`        // 响应时间
	SearchResult []FindingSearchResult `json:"searchResult"`     // 命中结果
	Pagination   []FindingPagination   `json:"paginationOutput"` // 分页信息
	ErrorMessage []FindingErrorBlock   `json:"errorMessage"`     // ack=Failure时的错误明细
}

// FindingErrorBlock ack=Failure时携带的错误块
type FindingErrorBlock struct {
	Error []FindingError `json:"error"`
}

// FindingError 单条错误（category=Security代表AppID无效）
type FindingError struct {
	ErrorID  []string `json:"errorId"`
	Category []string `json:"category"`
	Message  []string `json:"message"`
}

// FindingSearchResult 命中结果（@count为本页条数字符串）
type FindingSearchResult struct {
	Count string        `json:"@count"`
	Items []FindingItem `json:"item"`
}

// FindingItem Finding 商品条目
type FindingItem struct {
	ItemID        []string               `json:"itemId"`
	Title         []string               `json:"title"`
	ListingInfo   []FindingListingInfo   `json:"listingInfo"`
	SellingStatus []FindingSellingStatus `json:"sellingStatus"`
	ShippingInfo  []FindingShippingInfo  `json:"shippingInfo"`
}

// FindingListingInfo 刊登信息（watchCount缺失表示上游未统计）
type FindingListingInfo struct {
	ListingType []string `json:"listingType"`
	WatchCount  []string `json:"watchCount"`
	StartTime   []string `json:"startTime"`
	EndTime     []string `json:"endTime"`
}

// FindingSellingStatus 售卖状态
type FindingSellingStatus struct {
	CurrentPrice []FindingPrice `json:"currentPrice"`
	SellingState []string       `json:"sellingState"`
}

// FindingShippingInfo 物流选项（一个条目对应一种物流服务）
type FindingShippingInfo struct {
	ShippingServiceCost []FindingPrice `json:"shippingServiceCost"`
	ShippingType        []string       `json:"shippingType"`
	ShipToLocations     []string       `json:"shipToLocations"`
}

// FindingPrice 金额（@currencyId+__value__为上游固定格式）
type FindingPrice struct {
	CurrencyID string `json:"@currencyId"`
	Value      string `json:"__value__"`
}

// FindingPagination 分页信息（数值均为字符串）
type FindingPagination struct {
	PageNumber   []string `json:"pageNumber"`
	TotalPages   []string `json:"totalPages"`
	TotalEntries []string `json:"totalEntries"`
}

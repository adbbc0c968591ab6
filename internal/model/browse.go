package model

// BrowseSearchResponse Browse item_summary/search 响应
type BrowseSearchResponse struct {
	Href          string       `json:"href"`          // 当前页链接
	Total         int          `json:"total"`         // 命中总数
	Next          string       `json:"next"`          // 下一页链接（无下一页为空）
	Limit         int          `json:"limit"`         // 页大小
	Offset        int          `json:"offset"`        // 页偏移
	ItemSummaries []BrowseItem `json:"itemSummaries"` // 商品摘要列表
}

// BrowseItem Browse 商品摘要（价格等数值按上游惯例以字符串下发）
type BrowseItem struct {
	ItemID           string              `json:"itemId"`           // 商品ID
	Title            string              `json:"title"`            // 标题
	Price            BrowseAmount        `json:"price"`            // 当前价格
	Condition        string              `json:"condition"`        // 成色（NEW/USED等）
	ItemWebURL       string              `json:"itemWebUrl"`       // 商品页链接
	Categories       []BrowseCategoryRef `json:"categories"`       // 所属类目（首个为主类目）
	Seller           BrowseSeller        `json:"seller"`           // 卖家信息
	LocalizedAspects []BrowseAspect      `json:"localizedAspects"` // 商品属性键值对
	RecentSales      []BrowseSale        `json:"recentSales"`      // 近期成交记录
}

// BrowseAmount 金额（value为十进制字符串）
type BrowseAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// BrowseCategoryRef 商品携带的类目引用
type BrowseCategoryRef struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// BrowseSeller 卖家摘要（feedbackPercentage按上游惯例为字符串）
type BrowseSeller struct {
	Username           string `json:"username"`
	FeedbackScore      int    `json:"feedbackScore"`
	FeedbackPercentage string `json:"feedbackPercentage"`
}

// BrowseAspect 商品属性键值对（Brand→Apple等）
type BrowseAspect struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BrowseSale 商品摘要内嵌的近期成交记录
type BrowseSale struct {
	TransactionID string       `json:"transactionId"` // 成交ID
	BuyerUsername string       `json:"buyerUsername"` // 买家用户名
	SalePrice     BrowseAmount `json:"salePrice"`     // 成交价
	SaleDate      string       `json:"saleDate"`      // 成交时间（RFC3339字符串）
}

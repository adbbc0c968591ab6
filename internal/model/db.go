package model

import (
	"time"

	"gorm.io/datatypes"
)

type Listing struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID      string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_listing_run_item;comment:所属运行ID"`
	ItemID     string    `gorm:"column:item_id;type:varchar(64);not null;uniqueIndex:uk_listing_run_item;comment:商品ID"`
	Title      string    `gorm:"column:title;type:varchar(256);not null;comment:商品标题"`
	Price      float64   `gorm:"column:price;type:numeric(18,6);default:0;comment:当前价格"`
	Currency   string    `gorm:"column:currency;type:varchar(8);comment:币种"`
	CategoryID string    `gorm:"column:category_id;type:varchar(32);index;comment:主类目ID"`
	SellerID   string    `gorm:"column:seller_id;type:varchar(128);index;comment:卖家ID"`
	Condition  string    `gorm:"column:condition;type:varchar(32);comment:成色"`
	ListingURL string    `gorm:"column:listing_url;type:varchar(512);comment:商品页链接"`
	AsOf       time.Time `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type Category struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID            string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_category_run_cat;comment:所属运行ID"`
	CategoryID       string    `gorm:"column:category_id;type:varchar(32);not null;uniqueIndex:uk_category_run_cat;comment:类目ID"`
	Name             string    `gorm:"column:name;type:varchar(128);not null;comment:类目名称"`
	ParentCategoryID string    `gorm:"column:parent_category_id;type:varchar(32);comment:父类目ID"`
	Level            int       `gorm:"column:level;type:int;default:0;comment:类目树深度"`
	AsOf             time.Time `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type Seller struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID              string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_seller_run_seller;comment:所属运行ID"`
	SellerID           string    `gorm:"column:seller_id;type:varchar(128);not null;uniqueIndex:uk_seller_run_seller;comment:卖家ID"`
	Username           string    `gorm:"column:username;type:varchar(128);not null;comment:卖家用户名"`
	FeedbackScore      int       `gorm:"column:feedback_score;type:int;default:0;comment:信用分"`
	FeedbackPercentage float64   `gorm:"column:feedback_percentage;type:numeric(6,2);default:0;comment:好评率"`
	AsOf               time.Time `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	CreatedAt          time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type Transaction struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID         string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_txn_run_txn;comment:所属运行ID"`
	TransactionID string    `gorm:"column:transaction_id;type:varchar(64);not null;uniqueIndex:uk_txn_run_txn;comment:成交ID"`
	ItemID        string    `gorm:"column:item_id;type:varchar(64);index;not null;comment:商品ID"`
	BuyerID       string    `gorm:"column:buyer_id;type:varchar(128);comment:买家ID"`
	SalePrice     float64   `gorm:"column:sale_price;type:numeric(18,6);default:0;comment:成交价"`
	Currency      string    `gorm:"column:currency;type:varchar(8);comment:币种"`
	SaleDate      time.Time `gorm:"column:sale_date;type:timestamp;comment:成交时间"`
	AsOf          time.Time `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type WatchCount struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID        string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_watch_run_item_ts;comment:所属运行ID"`
	ItemID       string    `gorm:"column:item_id;type:varchar(64);not null;uniqueIndex:uk_watch_run_item_ts;comment:商品ID"`
	SnapshotTime time.Time `gorm:"column:snapshot_time;type:timestamp;not null;uniqueIndex:uk_watch_run_item_ts;comment:快照时点"`
	WatchCount   int       `gorm:"column:watch_count;type:int;default:0;comment:关注人数"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type PricePoint struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID        string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_price_run_item_ts;comment:所属运行ID"`
	ItemID       string    `gorm:"column:item_id;type:varchar(64);not null;uniqueIndex:uk_price_run_item_ts;comment:商品ID"`
	SnapshotTime time.Time `gorm:"column:snapshot_time;type:timestamp;not null;uniqueIndex:uk_price_run_item_ts;comment:快照时点"`
	Price        float64   `gorm:"column:price;type:numeric(18,6);default:0;comment:快照价格"`
	Currency     string    `gorm:"column:currency;type:varchar(8);comment:币种"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type ShippingOption struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID       string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_ship_run_item_idx;comment:所属运行ID"`
	ItemID      string    `gorm:"column:item_id;type:varchar(64);not null;uniqueIndex:uk_ship_run_item_idx;comment:商品ID"`
	OptionIndex int       `gorm:"column:option_index;type:int;not null;uniqueIndex:uk_ship_run_item_idx;comment:物流选项序号"`
	ServiceName string    `gorm:"column:service_name;type:varchar(64);comment:物流服务名"`
	Cost        float64   `gorm:"column:cost;type:numeric(18,6);default:0;comment:运费"`
	Currency    string    `gorm:"column:currency;type:varchar(8);comment:币种"`
	ShipsTo     string    `gorm:"column:ships_to;type:varchar(128);comment:可达区域"`
	AsOf        time.Time `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type ItemSpecific struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunID          string    `gorm:"column:run_id;type:varchar(64);not null;uniqueIndex:uk_spec_run_item_attr;comment:所属运行ID"`
	ItemID         string    `gorm:"column:item_id;type:varchar(64);not null;uniqueIndex:uk_spec_run_item_attr;comment:商品ID"`
	AttributeName  string    `gorm:"column:attribute_name;type:varchar(128);not null;uniqueIndex:uk_spec_run_item_attr;comment:属性名"`
	AttributeValue string    `gorm:"column:attribute_value;type:varchar(256);comment:属性值"`
	AsOf           time.Time `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type SyncRun struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunUUID    string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null;comment:运行全局唯一ID"`
	Query      string         `gorm:"column:query;type:varchar(256);not null;comment:搜索关键词"`
	FetchLimit int            `gorm:"column:fetch_limit;type:int;not null;comment:单接口抓取上限"`
	AsOf       time.Time      `gorm:"column:as_of;type:timestamp;not null;comment:本次运行统一数据时点"`
	Status     string         `gorm:"column:status;type:varchar(16);not null;comment:终态：assembled/failed"`
	StartedAt  time.Time      `gorm:"column:started_at;type:timestamp;not null;comment:开始时间"`
	FinishedAt *time.Time     `gorm:"column:finished_at;type:timestamp;comment:结束时间"`
	DurationMs int64          `gorm:"column:duration_ms;type:bigint;default:0;comment:耗时毫秒"`
	RowCounts  datatypes.JSON `gorm:"column:row_counts;type:jsonb;comment:各表产出行数"`
	APICalls   datatypes.JSON `gorm:"column:api_calls;type:jsonb;comment:各接口HTTP调用次数"`
	Degraded   datatypes.JSON `gorm:"column:degraded;type:jsonb;comment:降级为空的表及原因"`
	Skips      datatypes.JSON `gorm:"column:skips;type:jsonb;comment:逐行丢弃记录"`
	ErrorMsg   *string        `gorm:"column:error_msg;type:text;comment:终止原因（仅failed）"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

type ApiSource struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name         string     `gorm:"column:name;type:varchar(32);uniqueIndex;not null;comment:接口名：browse/finding/taxonomy"`
	BaseURL      string     `gorm:"column:base_url;type:varchar(256);comment:API地址"`
	CallLimit    int        `gorm:"column:call_limit;type:int;default:5000;comment:API调用限额"`
	CallsUsed    int        `gorm:"column:calls_used;type:int;default:0;comment:已调用次数"`
	LastCalledAt *time.Time `gorm:"column:last_called_at;type:timestamp;comment:最近调用时间"`
	IsEnabled    bool       `gorm:"column:is_enabled;type:boolean;default:true;comment:是否启用"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Listing) TableName() string        { return "listings" }
func (Category) TableName() string       { return "categories" }
func (Seller) TableName() string         { return "sellers" }
func (Transaction) TableName() string    { return "transactions" }
func (WatchCount) TableName() string     { return "watch_count" }
func (PricePoint) TableName() string     { return "price_history" }
func (ShippingOption) TableName() string { return "shipping_options" }
func (ItemSpecific) TableName() string   { return "item_specifics" }
func (SyncRun) TableName() string        { return "sync_runs" }
func (ApiSource) TableName() string      { return "api_sources" }

package interfaces

import (
	"context"

	"EbaySync/internal/model"
)

// SourceAdapter 三个上游接口适配器必须实现的核心接口
type SourceAdapter interface {
	GetName() string                                                                       // 接口名称
	GetSource() model.SourceType                                                           // 接口类型
	Fetch(ctx context.Context, queryOrID string, limit int) ([]*model.RawRecord, error)    // 分页抓取原始记录，凑满limit或上游耗尽即停
	CallsMade() int                                                                        // 本实例累计发起的HTTP调用次数（配额观测用）
}

// RunRepository 运行结果的数据库操作接口
type RunRepository interface {
	SaveRun(ctx context.Context, run *model.SyncRun, bundle *model.TableBundle) error
	RecordSourceUsage(ctx context.Context, calls map[string]int) error
}

// RunQueryRepository 运行与产出表的查询接口
type RunQueryRepository interface {
	ListRuns(ctx context.Context, page, pageSize int) ([]*model.SyncRun, int64, error)
	GetRunByUUID(ctx context.Context, runUUID string) (*model.SyncRun, error)
	GetTableRows(ctx context.Context, runUUID, table string, page, pageSize int) ([]interface{}, int64, error)
}

package repository

import (
	"context"
	"fmt"

	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"

	"gorm.io/gorm"
)

type runRepository struct {
	db *gorm.DB
}

// NewRunRepository 创建 RunQueryRepository 实例
func NewRunRepository(db *gorm.DB) interfaces.RunQueryRepository {
	return &runRepository{db: db}
}

// ListRuns 按时间倒序分页查询历史运行
func (r *runRepository) ListRuns(ctx context.Context, page, pageSize int) ([]*model.SyncRun, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	db := r.db.WithContext(ctx).Model(&model.SyncRun{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []*model.SyncRun
	if err := db.
		Order("started_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

// GetRunByUUID 通过 run_uuid 获取单次运行
func (r *runRepository) GetRunByUUID(ctx context.Context, runUUID string) (*model.SyncRun, error) {
	var run model.SyncRun
	if err := r.db.WithContext(ctx).
		Where("run_uuid = ?", runUUID).
		First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// GetTableRows 分页查询某次运行落库的产出表行，按表名分发
func (r *runRepository) GetTableRows(ctx context.Context, runUUID, table string, page, pageSize int) ([]interface{}, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 100
	}

	switch table {
	case model.TableListings:
		return queryTableRows[model.Listing](ctx, r.db, runUUID, page, pageSize)
	case model.TableCategories:
		return queryTableRows[model.Category](ctx, r.db, runUUID, page, pageSize)
	case model.TableSellers:
		return queryTableRows[model.Seller](ctx, r.db, runUUID, page, pageSize)
	case model.TableTransactions:
		return queryTableRows[model.Transaction](ctx, r.db, runUUID, page, pageSize)
	case model.TableWatchCount:
		return queryTableRows[model.WatchCount](ctx, r.db, runUUID, page, pageSize)
	case model.TablePriceHistory:
		return queryTableRows[model.PricePoint](ctx, r.db, runUUID, page, pageSize)
	case model.TableShippingOptions:
		return queryTableRows[model.ShippingOption](ctx, r.db, runUUID, page, pageSize)
	case model.TableItemSpecifics:
		return queryTableRows[model.ItemSpecific](ctx, r.db, runUUID, page, pageSize)
	default:
		return nil, 0, fmt.Errorf("未知的数据表: %s", table)
	}
}

// queryTableRows 按 run_id 过滤并分页查询单张产出表
func queryTableRows[T any](ctx context.Context, db *gorm.DB, runUUID string, page, pageSize int) ([]interface{}, int64, error) {
	q := db.WithContext(ctx).Model(new(T)).Where("run_id = ?", runUUID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*T
	if err := q.
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return interfaces.ToInterfaceSlice(rows), total, nil
}

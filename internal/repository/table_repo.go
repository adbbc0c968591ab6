package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"
)

// 八表批量写入的单批行数
const insertBatchSize = 200

type TableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) interfaces.RunRepository {
	return &TableRepository{db: db}
}

// SaveRun 运行记录与八表同事务入库（bundle为nil时只落运行记录）
func (r *TableRepository) SaveRun(ctx context.Context, run *model.SyncRun, bundle *model.TableBundle) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	// 1. 保存运行记录
	if err := tx.Create(run).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存运行记录失败: %w, run: %s", err, run.RunUUID)
	}

	// 2. 八表分批写入
	if bundle != nil {
		if err := saveTables(tx, bundle); err != nil {
			tx.Rollback()
			return fmt.Errorf("保存八表失败: %w, run: %s", err, run.RunUUID)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// saveTables 空表跳过（CreateInBatches对空切片也会报错）
func saveTables(tx *gorm.DB, bundle *model.TableBundle) error {
	if len(bundle.Listings) > 0 {
		if err := tx.CreateInBatches(bundle.Listings, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入listings失败: %w", err)
		}
	}
	if len(bundle.Categories) > 0 {
		if err := tx.CreateInBatches(bundle.Categories, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入categories失败: %w", err)
		}
	}
	if len(bundle.Sellers) > 0 {
		if err := tx.CreateInBatches(bundle.Sellers, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入sellers失败: %w", err)
		}
	}
	if len(bundle.Transactions) > 0 {
		if err := tx.CreateInBatches(bundle.Transactions, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入transactions失败: %w", err)
		}
	}
	if len(bundle.WatchCounts) > 0 {
		if err := tx.CreateInBatches(bundle.WatchCounts, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入watch_count失败: %w", err)
		}
	}
	if len(bundle.PricePoints) > 0 {
		if err := tx.CreateInBatches(bundle.PricePoints, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入price_history失败: %w", err)
		}
	}
	if len(bundle.ShippingOptions) > 0 {
		if err := tx.CreateInBatches(bundle.ShippingOptions, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入shipping_options失败: %w", err)
		}
	}
	if len(bundle.ItemSpecifics) > 0 {
		if err := tx.CreateInBatches(bundle.ItemSpecifics, insertBatchSize).Error; err != nil {
			return fmt.Errorf("写入item_specifics失败: %w", err)
		}
	}
	return nil
}

// RecordSourceUsage 累加各接口的调用次数与最近调用时间（配额观测）
func (r *TableRepository) RecordSourceUsage(ctx context.Context, calls map[string]int) error {
	now := time.Now()
	for name, n := range calls {
		if n <= 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Model(&model.ApiSource{}).
			Where("name = ?", name).
			Updates(map[string]interface{}{
				"calls_used":     gorm.Expr("calls_used + ?", n),
				"last_called_at": now,
				"updated_at":     now,
			}).Error; err != nil {
			return fmt.Errorf("更新%s配额失败: %w", name, err)
		}
	}
	return nil
}

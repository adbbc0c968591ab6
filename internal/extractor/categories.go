package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// Categories 从Taxonomy原始记录提取categories表。
// category_id为键：缺失整行跳过；多种子子树重叠产生的重复静默去重（保首条）
func Categories(runID string, asOf time.Time, records []*model.RawRecord) ([]*model.Category, []model.RowSkip) {
	rows := make([]*model.Category, 0, len(records))
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		rec, ok := r.Data.(model.TaxonomyCategoryRecord)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableCategories, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		if rec.CategoryID == "" {
			skips = append(skips, model.RowSkip{Table: model.TableCategories, RecordID: r.ID, Reason: ReasonMissingCategoryID})
			continue
		}
		if _, dup := seen[rec.CategoryID]; dup {
			continue
		}
		seen[rec.CategoryID] = struct{}{}

		rows = append(rows, &model.Category{
			RunID:            runID,
			CategoryID:       rec.CategoryID,
			Name:             rec.CategoryName,
			ParentCategoryID: rec.ParentCategoryID,
			Level:            rec.Level,
			AsOf:             asOf,
		})
	}
	return rows, skips
}

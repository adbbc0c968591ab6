package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// Sellers 从Browse原始记录聚合sellers表。
// seller_id（上游以用户名为稳定标识）为键：缺失整行跳过；
// 多商品同卖家是常态，重复静默去重（保首条）
func Sellers(runID string, asOf time.Time, records []*model.RawRecord) ([]*model.Seller, []model.RowSkip) {
	rows := make([]*model.Seller, 0, len(records))
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		item, ok := r.Data.(model.BrowseItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableSellers, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		if item.Seller.Username == "" {
			skips = append(skips, model.RowSkip{Table: model.TableSellers, RecordID: r.ID, Reason: ReasonMissingSellerID})
			continue
		}
		if _, dup := seen[item.Seller.Username]; dup {
			continue
		}
		seen[item.Seller.Username] = struct{}{}

		rows = append(rows, &model.Seller{
			RunID:              runID,
			SellerID:           item.Seller.Username,
			Username:           item.Seller.Username,
			FeedbackScore:      item.Seller.FeedbackScore,
			FeedbackPercentage: parsePrice(item.Seller.FeedbackPercentage),
			AsOf:               asOf,
		})
	}
	return rows, skips
}

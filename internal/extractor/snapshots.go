package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// WatchCounts 从Finding原始记录提取watch_count表。
// (item_id, snapshot_time)为键，snapshot_time统一取本次运行的数据时点；
// watchCount缺失（上游未统计）默认0
func WatchCounts(runID string, snapshotTime time.Time, records []*model.RawRecord) ([]*model.WatchCount, []model.RowSkip) {
	rows := make([]*model.WatchCount, 0, len(records))
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		item, ok := r.Data.(model.FindingItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableWatchCount, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		itemID := model.First(item.ItemID)
		if itemID == "" {
			skips = append(skips, model.RowSkip{Table: model.TableWatchCount, RecordID: r.ID, Reason: ReasonMissingItemID})
			continue
		}
		if _, dup := seen[itemID]; dup {
			skips = append(skips, model.RowSkip{Table: model.TableWatchCount, RecordID: itemID, Reason: ReasonDuplicateKey})
			continue
		}
		seen[itemID] = struct{}{}

		rows = append(rows, &model.WatchCount{
			RunID:        runID,
			ItemID:       itemID,
			SnapshotTime: snapshotTime,
			WatchCount:   parseCount(model.First(model.First(item.ListingInfo).WatchCount)),
		})
	}
	return rows, skips
}

// PricePoints 从Finding原始记录提取price_history表。
// (item_id, snapshot_time)为键；currentPrice缺失默认0
func PricePoints(runID string, snapshotTime time.Time, records []*model.RawRecord) ([]*model.PricePoint, []model.RowSkip) {
	rows := make([]*model.PricePoint, 0, len(records))
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		item, ok := r.Data.(model.FindingItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TablePriceHistory, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		itemID := model.First(item.ItemID)
		if itemID == "" {
			skips = append(skips, model.RowSkip{Table: model.TablePriceHistory, RecordID: r.ID, Reason: ReasonMissingItemID})
			continue
		}
		if _, dup := seen[itemID]; dup {
			skips = append(skips, model.RowSkip{Table: model.TablePriceHistory, RecordID: itemID, Reason: ReasonDuplicateKey})
			continue
		}
		seen[itemID] = struct{}{}

		price := model.First(model.First(item.SellingStatus).CurrentPrice)
		rows = append(rows, &model.PricePoint{
			RunID:        runID,
			ItemID:       itemID,
			SnapshotTime: snapshotTime,
			Price:        parsePrice(price.Value),
			Currency:     price.CurrencyID,
		})
	}
	return rows, skips
}

package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// Listings 从Browse原始记录提取listings表。
// item_id为键：缺失整行跳过，重复保首条；标题/价格等缺失用默认值兜底
func Listings(runID string, asOf time.Time, records []*model.RawRecord) ([]*model.Listing, []model.RowSkip) {
	rows := make([]*model.Listing, 0, len(records))
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		item, ok := r.Data.(model.BrowseItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableListings, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		if item.ItemID == "" {
			skips = append(skips, model.RowSkip{Table: model.TableListings, RecordID: r.ID, Reason: ReasonMissingItemID})
			continue
		}
		if _, dup := seen[item.ItemID]; dup {
			skips = append(skips, model.RowSkip{Table: model.TableListings, RecordID: item.ItemID, Reason: ReasonDuplicateKey})
			continue
		}
		seen[item.ItemID] = struct{}{}

		categoryID := ""
		if len(item.Categories) > 0 {
			categoryID = item.Categories[0].CategoryID // 首个为主类目
		}
		rows = append(rows, &model.Listing{
			RunID:      runID,
			ItemID:     item.ItemID,
			Title:      item.Title,
			Price:      parsePrice(item.Price.Value),
			Currency:   item.Price.Currency,
			CategoryID: categoryID,
			SellerID:   item.Seller.Username,
			Condition:  item.Condition,
			ListingURL: item.ItemWebURL,
			AsOf:       asOf,
		})
	}
	return rows, skips
}

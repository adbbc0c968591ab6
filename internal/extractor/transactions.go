package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// Transactions 从Browse原始记录内嵌的近期成交提取transactions表。
// transaction_id为键：缺失整行跳过，重复保首条；
// 父商品缺item_id时其成交行无法关联，一并跳过
func Transactions(runID string, asOf time.Time, records []*model.RawRecord) ([]*model.Transaction, []model.RowSkip) {
	rows := make([]*model.Transaction, 0)
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{})

	for _, r := range records {
		item, ok := r.Data.(model.BrowseItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableTransactions, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		if item.ItemID == "" && len(item.RecentSales) > 0 {
			skips = append(skips, model.RowSkip{Table: model.TableTransactions, RecordID: r.ID, Reason: ReasonMissingItemID})
			continue
		}
		for _, sale := range item.RecentSales {
			if sale.TransactionID == "" {
				skips = append(skips, model.RowSkip{Table: model.TableTransactions, RecordID: item.ItemID, Reason: ReasonMissingTxnID})
				continue
			}
			if _, dup := seen[sale.TransactionID]; dup {
				skips = append(skips, model.RowSkip{Table: model.TableTransactions, RecordID: sale.TransactionID, Reason: ReasonDuplicateKey})
				continue
			}
			seen[sale.TransactionID] = struct{}{}

			rows = append(rows, &model.Transaction{
				RunID:         runID,
				TransactionID: sale.TransactionID,
				ItemID:        item.ItemID,
				BuyerID:       sale.BuyerUsername,
				SalePrice:     parsePrice(sale.SalePrice.Value),
				Currency:      sale.SalePrice.Currency,
				SaleDate:      parseTime(sale.SaleDate),
				AsOf:          asOf,
			})
		}
	}
	return rows, skips
}

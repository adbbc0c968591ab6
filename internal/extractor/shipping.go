package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// ShippingOptions 从Finding原始记录提取shipping_options表。
// (item_id, option_index)为键，option_index按上游下发顺序从0编号；
// 无物流信息的商品不产出行
func ShippingOptions(runID string, asOf time.Time, records []*model.RawRecord) ([]*model.ShippingOption, []model.RowSkip) {
	rows := make([]*model.ShippingOption, 0, len(records))
	skips := make([]model.RowSkip, 0)
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		item, ok := r.Data.(model.FindingItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableShippingOptions, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		itemID := model.First(item.ItemID)
		if itemID == "" {
			if len(item.ShippingInfo) > 0 {
				skips = append(skips, model.RowSkip{Table: model.TableShippingOptions, RecordID: r.ID, Reason: ReasonMissingItemID})
			}
			continue
		}
		if _, dup := seen[itemID]; dup {
			skips = append(skips, model.RowSkip{Table: model.TableShippingOptions, RecordID: itemID, Reason: ReasonDuplicateKey})
			continue
		}
		seen[itemID] = struct{}{}

		for idx, si := range item.ShippingInfo {
			cost := model.First(si.ShippingServiceCost)
			rows = append(rows, &model.ShippingOption{
				RunID:       runID,
				ItemID:      itemID,
				OptionIndex: idx,
				ServiceName: model.First(si.ShippingType),
				Cost:        parsePrice(cost.Value),
				Currency:    cost.CurrencyID,
				ShipsTo:     model.First(si.ShipToLocations),
				AsOf:        asOf,
			})
		}
	}
	return rows, skips
}

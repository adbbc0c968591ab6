package extractor

import (
	"time"

	"EbaySync/internal/model"
)

// ItemSpecifics 联合Browse与Taxonomy结果提取item_specifics表。
// Taxonomy的属性定义决定每个商品产出哪些属性行（按商品主类目匹配），
// 属性值取自商品自带的键值对，商品未填的属性默认空串。
// (item_id, attribute_name)为键；类目无属性定义的商品不产出行
func ItemSpecifics(runID string, asOf time.Time, browseRecords, taxonomyRecords []*model.RawRecord) ([]*model.ItemSpecific, []model.RowSkip) {
	// 1. 类目ID→属性定义索引（重复定义保首条）
	aspectsByCategory := make(map[string][]string)
	for _, r := range taxonomyRecords {
		rec, ok := r.Data.(model.TaxonomyCategoryRecord)
		if !ok || rec.CategoryID == "" {
			continue
		}
		if _, exists := aspectsByCategory[rec.CategoryID]; !exists && len(rec.Aspects) > 0 {
			aspectsByCategory[rec.CategoryID] = rec.Aspects
		}
	}

	// 2. 逐商品展开属性行
	rows := make([]*model.ItemSpecific, 0)
	skips := make([]model.RowSkip, 0)
	seenItems := make(map[string]struct{}, len(browseRecords))

	for _, r := range browseRecords {
		item, ok := r.Data.(model.BrowseItem)
		if !ok {
			skips = append(skips, model.RowSkip{Table: model.TableItemSpecifics, RecordID: r.ID, Reason: ReasonWrongRawType})
			continue
		}
		if item.ItemID == "" {
			skips = append(skips, model.RowSkip{Table: model.TableItemSpecifics, RecordID: r.ID, Reason: ReasonMissingItemID})
			continue
		}
		if _, dup := seenItems[item.ItemID]; dup {
			skips = append(skips, model.RowSkip{Table: model.TableItemSpecifics, RecordID: item.ItemID, Reason: ReasonDuplicateKey})
			continue
		}
		seenItems[item.ItemID] = struct{}{}

		categoryID := ""
		if len(item.Categories) > 0 {
			categoryID = item.Categories[0].CategoryID
		}
		defs := aspectsByCategory[categoryID]
		if len(defs) == 0 {
			continue
		}

		values := make(map[string]string, len(item.LocalizedAspects))
		for _, asp := range item.LocalizedAspects {
			if _, exists := values[asp.Name]; !exists {
				values[asp.Name] = asp.Value
			}
		}

		seenAttrs := make(map[string]struct{}, len(defs))
		for _, name := range defs {
			if name == "" {
				continue
			}
			if _, dup := seenAttrs[name]; dup {
				continue
			}
			seenAttrs[name] = struct{}{}
			rows = append(rows, &model.ItemSpecific{
				RunID:          runID,
				ItemID:         item.ItemID,
				AttributeName:  name,
				AttributeValue: values[name],
				AsOf:           asOf,
			})
		}
	}
	return rows, skips
}

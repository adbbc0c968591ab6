package extractor

import (
	"testing"

	"EbaySync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestSellersAggregates(t *testing.T) {
	a := browseItem("v1|101|0", "x")
	b := browseItem("v1|102|0", "y")
	b.Seller = model.BrowseSeller{Username: "seller-b", FeedbackScore: 5, FeedbackPercentage: "87.5"}

	rows, skips := Sellers(testRunID, testAsOf, []*model.RawRecord{browseRecord(a), browseRecord(b)})
	require.Len(t, rows, 2)
	require.Empty(t, skips)

	require.Equal(t, "seller-a", rows[0].SellerID)
	require.Equal(t, 812, rows[0].FeedbackScore)
	require.Equal(t, 99.1, rows[0].FeedbackPercentage)
	require.Equal(t, 87.5, rows[1].FeedbackPercentage)
}

func TestSellersSameSellerDedupedSilently(t *testing.T) {
	// 多商品同卖家是常态，保首条且不记丢弃
	rows, skips := Sellers(testRunID, testAsOf, []*model.RawRecord{
		browseRecord(browseItem("v1|101|0", "x")),
		browseRecord(browseItem("v1|102|0", "y")),
	})
	require.Len(t, rows, 1)
	require.Empty(t, skips)
}

func TestSellersSkipsMissingUsername(t *testing.T) {
	item := browseItem("v1|101|0", "x")
	item.Seller = model.BrowseSeller{}

	rows, skips := Sellers(testRunID, testAsOf, []*model.RawRecord{browseRecord(item)})
	require.Empty(t, rows)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonMissingSellerID, skips[0].Reason)
}

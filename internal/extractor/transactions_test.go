package extractor

import (
	"testing"
	"time"

	"EbaySync/internal/model"

	"github.com/stretchr/testify/require"
)

func saleOf(txnID, date string) model.BrowseSale {
	return model.BrowseSale{
		TransactionID: txnID,
		BuyerUsername: "buyer-9",
		SalePrice:     model.BrowseAmount{Value: "18.50", Currency: "USD"},
		SaleDate:      date,
	}
}

func TestTransactionsExtractsPerSale(t *testing.T) {
	item := browseItem("v1|101|0", "x")
	item.RecentSales = []model.BrowseSale{
		saleOf("t-1", "2025-03-14T08:00:00.000Z"),
		saleOf("t-2", "2025-03-14T09:30:00.000Z"),
	}

	rows, skips := Transactions(testRunID, testAsOf, []*model.RawRecord{browseRecord(item)})
	require.Len(t, rows, 2)
	require.Empty(t, skips)

	require.Equal(t, "t-1", rows[0].TransactionID)
	require.Equal(t, "v1|101|0", rows[0].ItemID)
	require.Equal(t, "buyer-9", rows[0].BuyerID)
	require.Equal(t, 18.50, rows[0].SalePrice)
	require.Equal(t, "USD", rows[0].Currency)
	require.Equal(t, time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), rows[0].SaleDate)
	require.Equal(t, testAsOf, rows[0].AsOf)
	require.Equal(t, "t-2", rows[1].TransactionID)
}

func TestTransactionsNoSalesNoRows(t *testing.T) {
	rows, skips := Transactions(testRunID, testAsOf, []*model.RawRecord{browseRecord(browseItem("v1|101|0", "x"))})
	require.Empty(t, rows)
	require.Empty(t, skips)
}

func TestTransactionsSkipsMissingTransactionID(t *testing.T) {
	item := browseItem("v1|101|0", "x")
	item.RecentSales = []model.BrowseSale{saleOf("", "2025-03-14T08:00:00.000Z"), saleOf("t-2", "2025-03-14T09:30:00.000Z")}

	rows, skips := Transactions(testRunID, testAsOf, []*model.RawRecord{browseRecord(item)})
	require.Len(t, rows, 1)
	require.Equal(t, "t-2", rows[0].TransactionID)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonMissingTxnID, skips[0].Reason)
	require.Equal(t, "v1|101|0", skips[0].RecordID)
}

func TestTransactionsDuplicateKeepsFirst(t *testing.T) {
	a := browseItem("v1|101|0", "x")
	a.RecentSales = []model.BrowseSale{saleOf("t-1", "2025-03-14T08:00:00.000Z")}
	b := browseItem("v1|102|0", "y")
	b.RecentSales = []model.BrowseSale{saleOf("t-1", "2025-03-14T09:30:00.000Z")}

	rows, skips := Transactions(testRunID, testAsOf, []*model.RawRecord{browseRecord(a), browseRecord(b)})
	require.Len(t, rows, 1)
	require.Equal(t, "v1|101|0", rows[0].ItemID)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonDuplicateKey, skips[0].Reason)
	require.Equal(t, "t-1", skips[0].RecordID)
}

func TestTransactionsParentMissingItemID(t *testing.T) {
	item := browseItem("", "x")
	item.RecentSales = []model.BrowseSale{saleOf("t-1", "2025-03-14T08:00:00.000Z")}

	rows, skips := Transactions(testRunID, testAsOf, []*model.RawRecord{browseRecord(item)})
	require.Empty(t, rows)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonMissingItemID, skips[0].Reason)
}

func TestTransactionsBadSaleDateZeroTime(t *testing.T) {
	item := browseItem("v1|101|0", "x")
	item.RecentSales = []model.BrowseSale{saleOf("t-1", "March 14th")}

	rows, skips := Transactions(testRunID, testAsOf, []*model.RawRecord{browseRecord(item)})
	require.Len(t, rows, 1)
	require.Empty(t, skips)
	require.True(t, rows[0].SaleDate.IsZero())
}

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableBundleAlwaysHasEightTables(t *testing.T) {
	bundle := &TableBundle{}

	tables := bundle.Tables()
	require.Len(t, tables, 8)
	for _, name := range AllTables() {
		rows, ok := tables[name]
		require.True(t, ok, "缺少表%s", name)
		require.Empty(t, rows)
	}
}

func TestTableBundleRowCounts(t *testing.T) {
	bundle := &TableBundle{
		Listings: []*Listing{{ItemID: "v1|1|0"}, {ItemID: "v1|2|0"}},
		Sellers:  []*Seller{{SellerID: "alice"}},
	}

	counts := bundle.RowCounts()
	require.Len(t, counts, 8)
	require.Equal(t, 2, counts[TableListings])
	require.Equal(t, 1, counts[TableSellers])
	require.Equal(t, 0, counts[TableTransactions])
	require.Equal(t, 3, bundle.TotalRows())
}

func TestRunReportMarkDegraded(t *testing.T) {
	report := NewRunReport()
	report.MarkDegraded([]string{TableWatchCount, TablePriceHistory}, KindTransientNetwork)

	require.Equal(t, KindTransientNetwork, report.Degraded[TableWatchCount])
	require.Equal(t, KindTransientNetwork, report.Degraded[TablePriceHistory])
	require.Empty(t, report.Degraded[TableListings])

	report.AddSkips([]RowSkip{{Table: TableListings, RecordID: "x", Reason: "missing_item_id"}})
	require.Len(t, report.Skips, 1)
}

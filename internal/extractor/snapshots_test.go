package extractor

import (
	"testing"

	"EbaySync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestWatchCountsExtracts(t *testing.T) {
	rows, skips := WatchCounts(testRunID, testAsOf, []*model.RawRecord{
		findingRecord(findingItem("201", "37", "12.00")),
		findingRecord(findingItem("202", "", "15.00")),
	})
	require.Len(t, rows, 2)
	require.Empty(t, skips)

	require.Equal(t, "201", rows[0].ItemID)
	require.Equal(t, 37, rows[0].WatchCount)
	require.Equal(t, testAsOf, rows[0].SnapshotTime)
	require.Equal(t, testRunID, rows[0].RunID)

	// 上游未统计watchCount默认0
	require.Equal(t, "202", rows[1].ItemID)
	require.Equal(t, 0, rows[1].WatchCount)
}

func TestWatchCountsSkipsMissingItemID(t *testing.T) {
	rows, skips := WatchCounts(testRunID, testAsOf, []*model.RawRecord{
		findingRecord(findingItem("", "5", "9.99")),
		findingRecord(findingItem("201", "5", "9.99")),
	})
	require.Len(t, rows, 1)
	require.Len(t, skips, 1)
	require.Equal(t, model.TableWatchCount, skips[0].Table)
	require.Equal(t, ReasonMissingItemID, skips[0].Reason)
}

func TestWatchCountsDuplicateRecorded(t *testing.T) {
	rows, skips := WatchCounts(testRunID, testAsOf, []*model.RawRecord{
		findingRecord(findingItem("201", "5", "9.99")),
		findingRecord(findingItem("201", "8", "9.99")),
	})
	require.Len(t, rows, 1)
	require.Equal(t, 5, rows[0].WatchCount)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonDuplicateKey, skips[0].Reason)
	require.Equal(t, "201", skips[0].RecordID)
}

func TestWatchCountsWrongRawType(t *testing.T) {
	rows, skips := WatchCounts(testRunID, testAsOf, []*model.RawRecord{
		browseRecord(browseItem("v1|101|0", "x")),
	})
	require.Empty(t, rows)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonWrongRawType, skips[0].Reason)
}

func TestPricePointsExtracts(t *testing.T) {
	rows, skips := PricePoints(testRunID, testAsOf, []*model.RawRecord{
		findingRecord(findingItem("201", "3", "12.45")),
	})
	require.Len(t, rows, 1)
	require.Empty(t, skips)
	require.Equal(t, "201", rows[0].ItemID)
	require.Equal(t, 12.45, rows[0].Price)
	require.Equal(t, "USD", rows[0].Currency)
	require.Equal(t, testAsOf, rows[0].SnapshotTime)
}

func TestPricePointsMissingPriceDefaultsZero(t *testing.T) {
	item := model.FindingItem{ItemID: []string{"201"}}

	rows, skips := PricePoints(testRunID, testAsOf, []*model.RawRecord{findingRecord(item)})
	require.Len(t, rows, 1)
	require.Empty(t, skips)
	require.Equal(t, float64(0), rows[0].Price)
	require.Equal(t, "", rows[0].Currency)
}

func TestPricePointsSkipsMissingItemID(t *testing.T) {
	rows, skips := PricePoints(testRunID, testAsOf, []*model.RawRecord{
		findingRecord(findingItem("", "3", "12.45")),
	})
	require.Empty(t, rows)
	require.Len(t, skips, 1)
	require.Equal(t, model.TablePriceHistory, skips[0].Table)
	require.Equal(t, ReasonMissingItemID, skips[0].Reason)
}

func TestPricePointsDuplicateRecorded(t *testing.T) {
	rows, skips := PricePoints(testRunID, testAsOf, []*model.RawRecord{
		findingRecord(findingItem("201", "3", "12.45")),
		findingRecord(findingItem("201", "3", "99.00")),
	})
	require.Len(t, rows, 1)
	require.Equal(t, 12.45, rows[0].Price)
	require.Len(t, skips, 1)
	require.Equal(t, ReasonDuplicateKey, skips[0].Reason)
}

package service

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"EbaySync/internal/config"
	"EbaySync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportBundleWritesEightFiles(t *testing.T) {
	asOf := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	bundle := &model.TableBundle{
		Listings: []*model.Listing{{
			RunID: "run-1", ItemID: "v1|101|0", Title: "iPhone 13", Price: 199.99, Currency: "USD",
			CategoryID: "9355", SellerID: "seller-a", Condition: "USED", ListingURL: "https://www.ebay.com/itm/101", AsOf: asOf,
		}},
		WatchCounts: []*model.WatchCount{{RunID: "run-1", ItemID: "101", SnapshotTime: asOf, WatchCount: 7}},
	}

	svc := NewCSVExportService(config.ExportConfig{Enabled: true, Dir: t.TempDir()}, logrus.New())
	dir, err := svc.ExportBundle("run-1", bundle)
	require.NoError(t, err)

	// 空表同样落盘，目录里恰好八个文件
	for _, table := range model.AllTables() {
		require.FileExists(t, filepath.Join(dir, table+".csv"))
	}

	listings := readCSV(t, filepath.Join(dir, model.TableListings+".csv"))
	require.Len(t, listings, 2)
	require.Equal(t, []string{"run_id", "item_id", "title", "price", "currency", "category_id", "seller_id", "condition", "listing_url", "as_of"}, listings[0])
	require.Equal(t, []string{"run-1", "v1|101|0", "iPhone 13", "199.99", "USD", "9355", "seller-a", "USED", "https://www.ebay.com/itm/101", "2025-03-15T12:00:00Z"}, listings[1])

	watch := readCSV(t, filepath.Join(dir, model.TableWatchCount+".csv"))
	require.Len(t, watch, 2)
	require.Equal(t, []string{"run-1", "101", "2025-03-15T12:00:00Z", "7"}, watch[1])

	// 没有数据的表只有表头
	sellers := readCSV(t, filepath.Join(dir, model.TableSellers+".csv"))
	require.Len(t, sellers, 1)
	require.Equal(t, []string{"run_id", "seller_id", "username", "feedback_score", "feedback_percentage", "as_of"}, sellers[0])
}

func TestExportBundleNilBundleRejected(t *testing.T) {
	svc := NewCSVExportService(config.ExportConfig{Dir: t.TempDir()}, logrus.New())
	_, err := svc.ExportBundle("run-1", nil)
	require.Error(t, err)
}

func TestExportBundleZeroTimeEmptyCell(t *testing.T) {
	bundle := &model.TableBundle{
		Transactions: []*model.Transaction{{
			RunID: "run-1", TransactionID: "t-1", ItemID: "v1|101|0", BuyerID: "buyer-9",
			SalePrice: 18.5, Currency: "USD",
		}},
	}

	svc := NewCSVExportService(config.ExportConfig{Dir: t.TempDir()}, logrus.New())
	dir, err := svc.ExportBundle("run-1", bundle)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, model.TableTransactions+".csv"))
	require.Len(t, rows, 2)
	// 未解析出的时间导出为空串而非零值时间戳
	require.Equal(t, "", rows[1][6])
	require.Equal(t, "18.5", rows[1][4])
}

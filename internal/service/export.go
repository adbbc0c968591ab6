package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/config"
	"EbaySync/internal/model"
)

// CSVExportService 把一次运行的八张表写成CSV文件（<dir>/<run_uuid>/<表名>.csv）
type CSVExportService struct {
	cfg    config.ExportConfig
	logger *logrus.Logger
}

func NewCSVExportService(cfg config.ExportConfig, logger *logrus.Logger) *CSVExportService {
	return &CSVExportService{cfg: cfg, logger: logger}
}

// ExportBundle 按固定顺序导出八张表，返回导出目录。
// 空表同样落盘（只有表头），保证每次导出目录里恰好八个文件
func (s *CSVExportService) ExportBundle(runUUID string, bundle *model.TableBundle) (string, error) {
	if bundle == nil {
		return "", fmt.Errorf("导出失败: 表数据为空")
	}
	dir := filepath.Join(s.cfg.Dir, runUUID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建导出目录失败: %w", err)
	}

	writers := []struct {
		table string
		write func(path string) error
	}{
		{model.TableListings, func(p string) error { return s.writeListings(p, bundle.Listings) }},
		{model.TableCategories, func(p string) error { return s.writeCategories(p, bundle.Categories) }},
		{model.TableSellers, func(p string) error { return s.writeSellers(p, bundle.Sellers) }},
		{model.TableTransactions, func(p string) error { return s.writeTransactions(p, bundle.Transactions) }},
		{model.TableWatchCount, func(p string) error { return s.writeWatchCounts(p, bundle.WatchCounts) }},
		{model.TablePriceHistory, func(p string) error { return s.writePricePoints(p, bundle.PricePoints) }},
		{model.TableShippingOptions, func(p string) error { return s.writeShippingOptions(p, bundle.ShippingOptions) }},
		{model.TableItemSpecifics, func(p string) error { return s.writeItemSpecifics(p, bundle.ItemSpecifics) }},
	}
	for _, w := range writers {
		path := filepath.Join(dir, w.table+".csv")
		if err := w.write(path); err != nil {
			return "", fmt.Errorf("导出%s失败: %w", w.table, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"run":  runUUID,
		"dir":  dir,
		"rows": bundle.TotalRows(),
	}).Info("CSV导出完成")
	return dir, nil
}

// writeCSV 建文件、写表头与数据行、落盘
func (s *CSVExportService) writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("写表头失败: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("写数据行失败: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVExportService) writeListings(path string, rows []*model.Listing) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.ItemID, r.Title, formatFloat(r.Price), r.Currency,
			r.CategoryID, r.SellerID, r.Condition, r.ListingURL, formatTime(r.AsOf),
		})
	}
	return s.writeCSV(path, []string{"run_id", "item_id", "title", "price", "currency", "category_id", "seller_id", "condition", "listing_url", "as_of"}, records)
}

func (s *CSVExportService) writeCategories(path string, rows []*model.Category) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.CategoryID, r.Name, r.ParentCategoryID, strconv.Itoa(r.Level), formatTime(r.AsOf),
		})
	}
	return s.writeCSV(path, []string{"run_id", "category_id", "name", "parent_category_id", "level", "as_of"}, records)
}

func (s *CSVExportService) writeSellers(path string, rows []*model.Seller) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.SellerID, r.Username, strconv.Itoa(r.FeedbackScore), formatFloat(r.FeedbackPercentage), formatTime(r.AsOf),
		})
	}
	return s.writeCSV(path, []string{"run_id", "seller_id", "username", "feedback_score", "feedback_percentage", "as_of"}, records)
}

func (s *CSVExportService) writeTransactions(path string, rows []*model.Transaction) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.TransactionID, r.ItemID, r.BuyerID, formatFloat(r.SalePrice), r.Currency,
			formatTime(r.SaleDate), formatTime(r.AsOf),
		})
	}
	return s.writeCSV(path, []string{"run_id", "transaction_id", "item_id", "buyer_id", "sale_price", "currency", "sale_date", "as_of"}, records)
}

func (s *CSVExportService) writeWatchCounts(path string, rows []*model.WatchCount) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.ItemID, formatTime(r.SnapshotTime), strconv.Itoa(r.WatchCount),
		})
	}
	return s.writeCSV(path, []string{"run_id", "item_id", "snapshot_time", "watch_count"}, records)
}

func (s *CSVExportService) writePricePoints(path string, rows []*model.PricePoint) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.ItemID, formatTime(r.SnapshotTime), formatFloat(r.Price), r.Currency,
		})
	}
	return s.writeCSV(path, []string{"run_id", "item_id", "snapshot_time", "price", "currency"}, records)
}

func (s *CSVExportService) writeShippingOptions(path string, rows []*model.ShippingOption) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.ItemID, strconv.Itoa(r.OptionIndex), r.ServiceName, formatFloat(r.Cost),
			r.Currency, r.ShipsTo, formatTime(r.AsOf),
		})
	}
	return s.writeCSV(path, []string{"run_id", "item_id", "option_index", "service_name", "cost", "currency", "ships_to", "as_of"}, records)
}

func (s *CSVExportService) writeItemSpecifics(path string, rows []*model.ItemSpecific) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.RunID, r.ItemID, r.AttributeName, r.AttributeValue, formatTime(r.AsOf),
		})
	}
	return s.writeCSV(path, []string{"run_id", "item_id", "attribute_name", "attribute_value", "as_of"}, records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

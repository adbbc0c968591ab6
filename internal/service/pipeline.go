package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"EbaySync/internal/adapter"
	"EbaySync/internal/config"
	"EbaySync/internal/extractor"
	"EbaySync/internal/metrics"
	"EbaySync/internal/model"
)

// Browse没有产出种子类目时用根类目兜底，保证categories仍有机会成表
const defaultRootCategoryID = "0"

// 接口→产出表映射（接口降级时连带置空）
var sourceTables = map[model.SourceType][]string{
	model.SourceBrowse:   {model.TableListings, model.TableSellers, model.TableTransactions},
	model.SourceFinding:  {model.TableWatchCount, model.TablePriceHistory, model.TableShippingOptions},
	model.SourceTaxonomy: {model.TableCategories, model.TableItemSpecifics},
}

// PipelineService 八表流水线编排器。
// 状态机：idle→fetching_browse→fetching_finding→fetching_taxonomy→extracting→assembled，
// 任意阶段可进failed。单接口限流/瞬时故障重试耗尽后降级为空表不阻塞整次运行，
// 鉴权与配置错误立即终止
type PipelineService struct {
	cfg      *config.Config
	logger   *logrus.Logger
	registry *adapter.SourceRegistry
	mets     *metrics.Metrics
}

func NewPipelineService(cfg *config.Config, logger *logrus.Logger, registry *adapter.SourceRegistry, mets *metrics.Metrics) *PipelineService {
	return &PipelineService{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		mets:     mets,
	}
}

// RunResult 单次运行的完整产出
type RunResult struct {
	RunUUID    string             `json:"run_uuid"`
	Query      string             `json:"query"`
	Limit      int                `json:"limit"`
	AsOf       time.Time          `json:"as_of"`    // 本次运行统一数据时点
	State      model.RunState     `json:"state"`    // 终态：assembled/failed
	Bundle     *model.TableBundle `json:"tables"`   // failed时为nil
	Report     *model.RunReport   `json:"report"`   // 降级/丢弃/调用次数明细
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

// Run 执行一次完整流水线。固定顺序Browse→Finding→Taxonomy抓取后提取八表，
// 成功时八个表名全部在场（降级的表为空），失败时返回错误且不产出表
func (s *PipelineService) Run(ctx context.Context, query string, limit int) (*RunResult, error) {
	result := &RunResult{
		RunUUID:   uuid.NewString(),
		Query:     query,
		Limit:     limit,
		AsOf:      time.Now().UTC(),
		State:     model.StateIdle,
		Report:    model.NewRunReport(),
		StartedAt: time.Now(),
	}

	// 1. 入参与凭证前置校验（任何抓取发生之前）
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return s.fail(result, &model.ConfigurationError{
			Fields: []string{"query", "limit"},
			Reason: "查询词不能为空且limit必须为正",
		})
	}
	if limit > s.cfg.Pipeline.MaxLimit && s.cfg.Pipeline.MaxLimit > 0 {
		s.logger.Warnf("limit=%d超过上限，截断为%d", limit, s.cfg.Pipeline.MaxLimit)
		limit = s.cfg.Pipeline.MaxLimit
		result.Limit = limit
	}
	if err := s.cfg.ValidateCredentials(); err != nil {
		return s.fail(result, err)
	}

	s.logger.WithFields(logrus.Fields{
		"run":   result.RunUUID,
		"query": query,
		"limit": limit,
	}).Info("流水线启动")

	// 2. 固定顺序抓取三个接口（Browse先行，其结果决定Taxonomy的种子类目）
	result.State = model.StateFetchingBrowse
	browseRecs, err := s.fetchSource(ctx, model.SourceBrowse, query, limit, result.Report)
	if err != nil {
		return s.fail(result, err)
	}

	result.State = model.StateFetchingFinding
	findingRecs, err := s.fetchSource(ctx, model.SourceFinding, query, limit, result.Report)
	if err != nil {
		return s.fail(result, err)
	}

	result.State = model.StateFetchingTaxonomy
	taxonomyRecs, err := s.fetchSource(ctx, model.SourceTaxonomy, s.categorySeeds(browseRecs), limit, result.Report)
	if err != nil {
		return s.fail(result, err)
	}

	// 3. 八表提取（纯函数，输入相同输出必相同）
	result.State = model.StateExtracting
	bundle := &model.TableBundle{}
	allSkips := make([]model.RowSkip, 0)

	var skips []model.RowSkip
	bundle.Listings, skips = extractor.Listings(result.RunUUID, result.AsOf, browseRecs)
	allSkips = append(allSkips, skips...)
	bundle.Categories, skips = extractor.Categories(result.RunUUID, result.AsOf, taxonomyRecs)
	allSkips = append(allSkips, skips...)
	bundle.Sellers, skips = extractor.Sellers(result.RunUUID, result.AsOf, browseRecs)
	allSkips = append(allSkips, skips...)
	bundle.Transactions, skips = extractor.Transactions(result.RunUUID, result.AsOf, browseRecs)
	allSkips = append(allSkips, skips...)
	bundle.WatchCounts, skips = extractor.WatchCounts(result.RunUUID, result.AsOf, findingRecs)
	allSkips = append(allSkips, skips...)
	bundle.PricePoints, skips = extractor.PricePoints(result.RunUUID, result.AsOf, findingRecs)
	allSkips = append(allSkips, skips...)
	bundle.ShippingOptions, skips = extractor.ShippingOptions(result.RunUUID, result.AsOf, findingRecs)
	allSkips = append(allSkips, skips...)
	bundle.ItemSpecifics, skips = extractor.ItemSpecifics(result.RunUUID, result.AsOf, browseRecs, taxonomyRecs)
	allSkips = append(allSkips, skips...)

	result.Report.AddSkips(allSkips)
	for _, skip := range allSkips {
		s.mets.RowSkipped(skip.Table, skip.Reason)
	}
	for table, n := range bundle.RowCounts() {
		s.mets.AddRowsExtracted(table, n)
	}

	// 4. 组装完成
	result.Bundle = bundle
	result.State = model.StateAssembled
	result.FinishedAt = time.Now()
	s.mets.RunFinished(string(model.StateAssembled), result.FinishedAt.Sub(result.StartedAt))

	s.logger.WithFields(logrus.Fields{
		"run":      result.RunUUID,
		"rows":     bundle.TotalRows(),
		"skips":    len(allSkips),
		"degraded": len(result.Report.Degraded),
	}).Info("流水线组装完成")
	return result, nil
}

// fetchSource 构建适配器并抓取一个接口。
// 限流/瞬时/契约错误降级为空记录（对应表置空并记入报告），
// 鉴权/配置错误与取消原样上抛终止运行
func (s *PipelineService) fetchSource(ctx context.Context, source model.SourceType, queryOrID string, limit int, report *model.RunReport) ([]*model.RawRecord, error) {
	// 适配器调用之间响应取消
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	adapterIns, err := s.registry.Build(source)
	if err != nil {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("构建%s适配器失败: %v", source, err)}
	}

	recs, fetchErr := adapterIns.Fetch(ctx, queryOrID, limit)
	report.APICalls[string(source)] += adapterIns.CallsMade()
	s.mets.AddAPICalls(string(source), adapterIns.CallsMade())

	if fetchErr != nil {
		if model.IsFatal(fetchErr) || errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded) {
			return nil, fetchErr
		}
		// 降级：该接口的产出表本次置空，运行继续
		kind := model.ErrorKind(fetchErr)
		tables := sourceTables[source]
		report.MarkDegraded(tables, kind)
		for _, t := range tables {
			s.mets.TableDegraded(t, kind)
		}
		s.logger.WithError(fetchErr).WithField("source", source).Warnf("%s抓取失败，%d张表本次置空", source, len(tables))
		return nil, nil
	}
	return recs, nil
}

// categorySeeds 从Browse结果收集种子类目ID（按上游顺序去重），
// 没有任何种子时回退根类目
func (s *PipelineService) categorySeeds(browseRecs []*model.RawRecord) string {
	seen := make(map[string]struct{})
	seeds := make([]string, 0)
	for _, r := range browseRecs {
		item, ok := r.Data.(model.BrowseItem)
		if !ok || len(item.Categories) == 0 {
			continue
		}
		id := item.Categories[0].CategoryID
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		seeds = append(seeds, id)
	}
	if len(seeds) == 0 {
		return defaultRootCategoryID
	}
	return strings.Join(seeds, ",")
}

// fail 记录终态并返回错误（兜底报告保留已发生的调用与降级）
func (s *PipelineService) fail(result *RunResult, err error) (*RunResult, error) {
	result.State = model.StateFailed
	result.FinishedAt = time.Now()
	s.mets.RunFinished(string(model.StateFailed), result.FinishedAt.Sub(result.StartedAt))
	s.logger.WithError(err).WithField("run", result.RunUUID).Error("流水线终止")
	return result, err
}

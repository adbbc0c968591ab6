package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"EbaySync/internal/adapter"
	"EbaySync/internal/config"
	"EbaySync/internal/interfaces"
	"EbaySync/internal/metrics"
	"EbaySync/internal/model"
	"EbaySync/internal/repository"
)

// SyncService 同步入口：执行流水线→运行与八表落库→更新接口配额→（可选）导出CSV
type SyncService struct {
	pipeline *PipelineService
	repo     interfaces.RunRepository
	exporter *CSVExportService
	cfg      *config.Config
	logger   *logrus.Logger
}

func NewSyncService(db *gorm.DB, logger *logrus.Logger, cfg *config.Config, mets *metrics.Metrics) *SyncService {
	registry := adapter.NewSourceRegistry(cfg, logger)
	return &SyncService{
		pipeline: NewPipelineService(cfg, logger, registry, mets),
		repo:     repository.NewTableRepository(db),
		exporter: NewCSVExportService(cfg.Export, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// SyncQuery 同步一个查询词的八表快照。limit不传（<=0）用配置默认值
func (s *SyncService) SyncQuery(ctx context.Context, query string, limit int) (*RunResult, error) {
	if limit <= 0 {
		limit = s.cfg.Pipeline.DefaultLimit
	}
	result, runErr := s.pipeline.Run(ctx, query, limit)

	// 1. 成功失败都落库留痕
	run := s.buildSyncRun(result, runErr)
	if err := s.repo.SaveRun(ctx, run, result.Bundle); err != nil {
		if runErr == nil {
			return nil, fmt.Errorf("运行%s入库失败: %w", result.RunUUID, err)
		}
		s.logger.WithError(err).Warn("失败运行落库失败")
	}

	// 2. 接口配额观测（失败仅告警，不影响运行结果）
	if len(result.Report.APICalls) > 0 {
		if err := s.repo.RecordSourceUsage(ctx, result.Report.APICalls); err != nil {
			s.logger.WithError(err).Warn("接口配额更新失败")
		}
	}
	if runErr != nil {
		return result, runErr
	}

	// 3. CSV导出（导出失败不作废已落库的运行）
	if s.cfg.Export.Enabled {
		if _, err := s.exporter.ExportBundle(result.RunUUID, result.Bundle); err != nil {
			s.logger.WithError(err).Error("CSV导出失败")
		}
	}
	return result, nil
}

// buildSyncRun 组装运行记录（报告字段序列化为JSON列）
func (s *SyncService) buildSyncRun(result *RunResult, runErr error) *model.SyncRun {
	run := &model.SyncRun{
		RunUUID:    result.RunUUID,
		Query:      result.Query,
		FetchLimit: result.Limit,
		AsOf:       result.AsOf,
		Status:     string(result.State),
		StartedAt:  result.StartedAt,
		DurationMs: result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		APICalls:   toJSON(result.Report.APICalls),
		Degraded:   toJSON(result.Report.Degraded),
		Skips:      toJSON(result.Report.Skips),
	}
	if !result.FinishedAt.IsZero() {
		finished := result.FinishedAt
		run.FinishedAt = &finished
	}
	if result.Bundle != nil {
		run.RowCounts = toJSON(result.Bundle.RowCounts())
	}
	if runErr != nil {
		msg := runErr.Error()
		run.ErrorMsg = &msg
	}
	return run
}

// toJSON 序列化失败时兜底空对象，不让留痕阻塞主流程
func toJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return b
}

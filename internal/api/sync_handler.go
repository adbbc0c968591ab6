package api

import (
	"fmt"
	"net/http"
	"strconv"

	"EbaySync/internal/config"
	"EbaySync/internal/metrics"
	"EbaySync/internal/model"
	"EbaySync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SyncHandler struct {
	syncService *service.SyncService
	logger      *logrus.Logger
}

func NewSyncHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config, mets *metrics.Metrics) *SyncHandler {
	return &SyncHandler{
		syncService: service.NewSyncService(db, logger, cfg, mets),
		logger:      logger,
	}
}

// RunSyncHandler 按关键词触发一次完整同步
// @Summary 抓取Browse/Finding/Taxonomy三个接口并装配八张数据表
// @Param q query string true "搜索关键词"
// @Param limit query int false "每个接口的目标记录数（缺省用配置default_limit）"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /sync/run [post]
func (h *SyncHandler) RunSyncHandler(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.syncService.SyncQuery(c.Request.Context(), query, limit)
	if err != nil {
		h.logger.Errorf("同步关键词%q失败: %v", query, err)
		body := gin.H{
			"error": err.Error(),
			"kind":  model.ErrorKind(err),
		}
		if result != nil {
			body["run_uuid"] = result.RunUUID
			body["state"] = result.State
			body["report"] = result.Report
		}
		c.JSON(statusForError(err), body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("关键词%s同步成功", query),
		"run_uuid":    result.RunUUID,
		"state":       result.State,
		"as_of":       result.AsOf,
		"row_counts":  result.Bundle.RowCounts(),
		"report":      result.Report,
		"duration_ms": result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	})
}

// statusForError 按错误种类映射HTTP状态码
func statusForError(err error) int {
	switch model.ErrorKind(err) {
	case model.KindConfiguration:
		return http.StatusBadRequest
	case model.KindRateLimit:
		return http.StatusTooManyRequests
	case model.KindAuthentication, model.KindTransientNetwork, model.KindUpstreamSchema:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package api

import (
	"net/http"
	"strconv"

	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"
	"EbaySync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RunHandler 历史运行与产出表的查询接口
type RunHandler struct {
	repo   interfaces.RunQueryRepository
	logger *logrus.Logger
}

// NewRunHandler 创建 RunHandler
func NewRunHandler(db *gorm.DB, logger *logrus.Logger) *RunHandler {
	return &RunHandler{
		repo:   repository.NewRunRepository(db),
		logger: logger,
	}
}

// ListRuns 运行列表接口
// GET /api/runs?page=1&page_size=20
func (h *RunHandler) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	runs, total, err := h.repo.ListRuns(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListRuns failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"runs":      runs,
	})
}

// GetRunDetail 单次运行详情（含行数统计与降级/丢弃报告）
// GET /api/runs/:run_uuid
func (h *RunHandler) GetRunDetail(c *gin.Context) {
	runUUID := c.Param("run_uuid")
	if runUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_uuid is required"})
		return
	}

	run, err := h.repo.GetRunByUUID(c.Request.Context(), runUUID)
	if err != nil {
		h.logger.WithError(err).Error("GetRunDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetRunTable 分页查询某次运行落库的单张产出表
// GET /api/runs/:run_uuid/tables/:table?page=1&page_size=100
func (h *RunHandler) GetRunTable(c *gin.Context) {
	runUUID := c.Param("run_uuid")
	table := c.Param("table")
	if runUUID == "" || table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_uuid and table are required"})
		return
	}
	if !validTableName(table) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table: " + table})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "100"))

	rows, total, err := h.repo.GetTableRows(c.Request.Context(), runUUID, table, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("GetRunTable failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_uuid":  runUUID,
		"table":     table,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"rows":      rows,
	})
}

// validTableName 校验表名是否属于八张产出表
func validTableName(table string) bool {
	for _, name := range model.AllTables() {
		if name == table {
			return true
		}
	}
	return false
}

package finding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/adapter"
	"EbaySync/internal/config"
	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"
	"EbaySync/internal/utils/httpclient"
)

func init() {
	adapter.Register(model.SourceFinding, NewFindingAdapter)
}

// Finding系接口单页条数上限
const maxEntriesPerPage = 100

type Adapter struct {
	cfg        *config.Config
	srcCfg     config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
	calls      int
}

func NewFindingAdapter(cfg *config.Config, _ *adapter.TokenSource, logger *logrus.Logger) interfaces.SourceAdapter {
	// Finding系走AppID鉴权，不使用OAuth令牌源
	srcCfg := cfg.SourceFor(model.SourceFinding)
	return &Adapter{
		cfg:        cfg,
		srcCfg:     srcCfg,
		httpClient: httpclient.NewHTTPClient(&srcCfg, logger),
		logger:     logger,
	}
}

// GetName ========== 实现SourceAdapter接口 ==========
func (a *Adapter) GetName() string {
	return "Finding"
}

func (a *Adapter) GetSource() model.SourceType {
	return model.SourceFinding
}

func (a *Adapter) CallsMade() int {
	return a.calls
}

// Fetch 按页调用findItemsByKeywords，凑满limit条或翻完总页数即停
func (a *Adapter) Fetch(ctx context.Context, query string, limit int) ([]*model.RawRecord, error) {
	if query == "" || limit <= 0 {
		return nil, &model.ConfigurationError{Fields: []string{"query", "limit"}, Reason: "查询词不能为空且limit必须为正"}
	}
	if a.cfg.Ebay.AppID == "" {
		return nil, &model.ConfigurationError{Fields: []string{"ebay.app_id"}, Reason: "Finding系接口需要AppID"}
	}

	pageSize := a.srcCfg.PageSize
	if pageSize <= 0 || pageSize > maxEntriesPerPage {
		pageSize = maxEntriesPerPage
	}
	if pageSize > limit {
		pageSize = limit
	}
	policy := httpclient.PolicyFromSource(a.srcCfg)

	records := make([]*model.RawRecord, 0, limit)
	for pageNum := 1; len(records) < limit; pageNum++ {
		// 1. 拉取一页
		a.calls++
		body, err := httpclient.GetJSON(ctx, a.httpClient, model.SourceFinding, a.buildSearchURL(query, pageSize, pageNum), nil, policy, a.logger)
		if err != nil {
			return nil, err
		}

		var env model.FindingEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &model.UpstreamSchemaError{Source: model.SourceFinding, Err: fmt.Errorf("解析搜索响应失败: %w", err)}
		}
		resp := model.First(env.Response)
		if len(resp.Ack) == 0 {
			return nil, &model.UpstreamSchemaError{Source: model.SourceFinding, Field: "findItemsByKeywordsResponse"}
		}

		// 2. ack=Failure时区分鉴权错误与契约错误
		if ack := model.First(resp.Ack); ack != "Success" && ack != "Warning" {
			return nil, a.classifyFailureAck(resp)
		}

		// 3. 封装为通用RawRecord，凑满limit即截断
		result := model.First(resp.SearchResult)
		if len(result.Items) == 0 {
			break // 正常耗尽
		}
		items := result.Items
		if remaining := limit - len(records); len(items) > remaining {
			items = items[:remaining]
		}
		for _, item := range items {
			records = append(records, &model.RawRecord{
				Source: model.SourceFinding,
				ID:     model.First(item.ItemID),
				Data:   item,
			})
		}

		totalPages, _ := strconv.Atoi(model.First(model.First(resp.Pagination).TotalPages))
		if totalPages > 0 && pageNum >= totalPages {
			break // 翻完总页数
		}
	}

	a.logger.WithFields(logrus.Fields{
		"source": a.GetSource(),
		"query":  query,
		"count":  len(records),
		"calls":  a.calls,
	}).Info("Finding抓取完成")
	return records, nil
}

// buildSearchURL 组装findItemsByKeywords请求（outputSelector=WatchCount拿关注数）
func (a *Adapter) buildSearchURL(query string, pageSize, pageNum int) string {
	params := url.Values{}
	params.Set("OPERATION-NAME", "findItemsByKeywords")
	params.Set("SERVICE-VERSION", "1.13.0")
	params.Set("SECURITY-APPNAME", a.cfg.Ebay.AppID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "")
	params.Set("GLOBAL-ID", a.globalID())
	params.Set("keywords", query)
	params.Set("outputSelector", "WatchCount")
	params.Set("paginationInput.entriesPerPage", strconv.Itoa(pageSize))
	params.Set("paginationInput.pageNumber", strconv.Itoa(pageNum))
	return a.srcCfg.BaseURL + "?" + params.Encode()
}

// globalID 市场标识转Finding系格式（EBAY_US→EBAY-US）
func (a *Adapter) globalID() string {
	if a.cfg.Ebay.Marketplace == "" {
		return "EBAY-US"
	}
	out := make([]byte, len(a.cfg.Ebay.Marketplace))
	for i := 0; i < len(a.cfg.Ebay.Marketplace); i++ {
		if a.cfg.Ebay.Marketplace[i] == '_' {
			out[i] = '-'
		} else {
			out[i] = a.cfg.Ebay.Marketplace[i]
		}
	}
	return string(out)
}

// classifyFailureAck ack=Failure的错误归类：Security类按鉴权失败处理并终止整次运行
func (a *Adapter) classifyFailureAck(resp model.FindingResponse) error {
	firstErr := model.First(model.First(resp.ErrorMessage).Error)
	category := model.First(firstErr.Category)
	message := model.First(firstErr.Message)
	errID := model.First(firstErr.ErrorID)

	err := fmt.Errorf("上游ack=Failure(errorId=%s): %s", errID, message)
	if category == "Security" {
		return &model.AuthenticationError{Source: model.SourceFinding, Err: err}
	}
	return &model.UpstreamSchemaError{Source: model.SourceFinding, Err: err}
}

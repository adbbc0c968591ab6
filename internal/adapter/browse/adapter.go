package browse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/adapter"
	"EbaySync/internal/config"
	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"
	"EbaySync/internal/utils/httpclient"
)

func init() {
	adapter.Register(model.SourceBrowse, NewBrowseAdapter)
}

type Adapter struct {
	cfg        *config.Config
	srcCfg     config.SourceConfig
	httpClient *http.Client
	tokens     *adapter.TokenSource
	logger     *logrus.Logger
	calls      int
}

func NewBrowseAdapter(cfg *config.Config, tokens *adapter.TokenSource, logger *logrus.Logger) interfaces.SourceAdapter {
	srcCfg := cfg.SourceFor(model.SourceBrowse)
	return &Adapter{
		cfg:        cfg,
		srcCfg:     srcCfg,
		httpClient: httpclient.NewHTTPClient(&srcCfg, logger),
		tokens:     tokens,
		logger:     logger,
	}
}

// GetName ========== 实现SourceAdapter接口 ==========
func (a *Adapter) GetName() string {
	return "Browse"
}

func (a *Adapter) GetSource() model.SourceType {
	return model.SourceBrowse
}

func (a *Adapter) CallsMade() int {
	return a.calls
}

// Fetch 分页调用item_summary/search，凑满limit条或上游耗尽即停
func (a *Adapter) Fetch(ctx context.Context, query string, limit int) ([]*model.RawRecord, error) {
	if query == "" || limit <= 0 {
		return nil, &model.ConfigurationError{Fields: []string{"query", "limit"}, Reason: "查询词不能为空且limit必须为正"}
	}

	pageSize := a.srcCfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > limit {
		pageSize = limit
	}
	policy := httpclient.PolicyFromSource(a.srcCfg)

	records := make([]*model.RawRecord, 0, limit)
	offset := 0
	for len(records) < limit {
		// 1. 取共享access token（缓存未过期时零开销）
		token, err := a.tokens.Token(ctx, model.SourceBrowse)
		if err != nil {
			return nil, err
		}

		// 2. 拉取一页商品摘要
		searchURL := fmt.Sprintf("%s/item_summary/search?q=%s&limit=%d&offset=%d",
			a.srcCfg.BaseURL, url.QueryEscape(query), pageSize, offset)
		headers := map[string]string{
			"Authorization":           "Bearer " + token,
			"X-EBAY-C-MARKETPLACE-ID": a.cfg.Ebay.Marketplace,
		}
		a.calls++
		body, err := httpclient.GetJSON(ctx, a.httpClient, model.SourceBrowse, searchURL, headers, policy, a.logger)
		if err != nil {
			return nil, err
		}

		var page model.BrowseSearchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &model.UpstreamSchemaError{Source: model.SourceBrowse, Err: fmt.Errorf("解析搜索响应失败: %w", err)}
		}
		if len(page.ItemSummaries) == 0 {
			if page.Total > 0 && offset < page.Total {
				// 上游声称还有数据却没下发条目，按契约漂移处理
				return nil, &model.UpstreamSchemaError{Source: model.SourceBrowse, Field: "itemSummaries"}
			}
			break // 正常耗尽
		}

		// 3. 封装为通用RawRecord，凑满limit即截断
		items := page.ItemSummaries
		if remaining := limit - len(records); len(items) > remaining {
			items = items[:remaining]
		}
		for _, item := range items {
			records = append(records, &model.RawRecord{
				Source: model.SourceBrowse,
				ID:     item.ItemID,
				Data:   item,
			})
		}

		if page.Next == "" {
			break // 无下一页
		}
		offset += pageSize
	}

	a.logger.WithFields(logrus.Fields{
		"source": a.GetSource(),
		"query":  query,
		"count":  len(records),
		"calls":  a.calls,
	}).Info("Browse抓取完成")
	return records, nil
}

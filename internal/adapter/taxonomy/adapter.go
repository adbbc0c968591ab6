package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/adapter"
	"EbaySync/internal/config"
	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"
	"EbaySync/internal/utils/httpclient"
)

func init() {
	adapter.Register(model.SourceTaxonomy, NewTaxonomyAdapter)
}

type Adapter struct {
	cfg        *config.Config
	srcCfg     config.SourceConfig
	httpClient *http.Client
	tokens     *adapter.TokenSource
	logger     *logrus.Logger
	calls      int
}

func NewTaxonomyAdapter(cfg *config.Config, tokens *adapter.TokenSource, logger *logrus.Logger) interfaces.SourceAdapter {
	srcCfg := cfg.SourceFor(model.SourceTaxonomy)
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
	return "Taxonomy"
}

func (a *Adapter) GetSource() model.SourceType {
	return model.SourceTaxonomy
}

func (a *Adapter) CallsMade() int {
	return a.calls
}

// Fetch 拉取类目树记录。queryOrID为逗号分隔的种子类目ID列表，
// 流程：取默认类目树ID → 逐种子拉子树并展平 → 附上该种子的属性定义。
// 单种子失败不阻塞整次抓取（鉴权失败除外），全部种子失败才返回错误
func (a *Adapter) Fetch(ctx context.Context, queryOrID string, limit int) ([]*model.RawRecord, error) {
	seeds := splitSeeds(queryOrID)
	if len(seeds) == 0 || limit <= 0 {
		return nil, &model.ConfigurationError{Fields: []string{"query_or_id", "limit"}, Reason: "种子类目不能为空且limit必须为正"}
	}

	// 1. 默认类目树ID
	treeID, err := a.fetchTreeID(ctx)
	if err != nil {
		return nil, err
	}

	// 2. 逐种子拉取子树（单种子失败不阻塞整次抓取）
	records := make([]*model.RawRecord, 0, limit)
	var lastErr error
	okSeeds := 0
	for _, seed := range seeds {
		if len(records) >= limit {
			break
		}
		recs, err := a.fetchSubtree(ctx, treeID, seed, limit-len(records))
		if err != nil {
			if model.IsFatal(err) {
				return nil, err
			}
			a.logger.WithError(err).WithField("seed", seed).Warn("单种子类目拉取失败，继续其余种子")
			lastErr = err
			continue
		}
		okSeeds++
		records = append(records, recs...)
	}
	if okSeeds == 0 && lastErr != nil {
		return nil, lastErr
	}

	a.logger.WithFields(logrus.Fields{
		"source": a.GetSource(),
		"seeds":  len(seeds),
		"count":  len(records),
		"calls":  a.calls,
	}).Info("Taxonomy抓取完成")
	return records, nil
}

// fetchTreeID 查询当前市场的默认类目树ID
func (a *Adapter) fetchTreeID(ctx context.Context) (string, error) {
	token, err := a.tokens.Token(ctx, model.SourceTaxonomy)
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/get_default_category_tree_id?marketplace_id=%s", a.srcCfg.BaseURL, a.cfg.Ebay.Marketplace)
	a.calls++
	body, err := httpclient.GetJSON(ctx, a.httpClient, model.SourceTaxonomy, u, a.bearer(token), httpclient.PolicyFromSource(a.srcCfg), a.logger)
	if err != nil {
		return "", err
	}

	var ref model.TaxonomyTreeRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return "", &model.UpstreamSchemaError{Source: model.SourceTaxonomy, Err: fmt.Errorf("解析类目树ID响应失败: %w", err)}
	}
	if ref.CategoryTreeID == "" {
		return "", &model.UpstreamSchemaError{Source: model.SourceTaxonomy, Field: "categoryTreeId"}
	}
	return ref.CategoryTreeID, nil
}

// fetchSubtree 拉取单个种子类目的子树并展平，附带该种子的属性名列表
func (a *Adapter) fetchSubtree(ctx context.Context, treeID, seed string, remaining int) ([]*model.RawRecord, error) {
	token, err := a.tokens.Token(ctx, model.SourceTaxonomy)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/category_tree/%s/get_category_subtree?category_id=%s", a.srcCfg.BaseURL, treeID, seed)
	a.calls++
	body, err := httpclient.GetJSON(ctx, a.httpClient, model.SourceTaxonomy, u, a.bearer(token), httpclient.PolicyFromSource(a.srcCfg), a.logger)
	if err != nil {
		return nil, err
	}

	var resp model.TaxonomySubtreeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &model.UpstreamSchemaError{Source: model.SourceTaxonomy, Err: fmt.Errorf("解析子树响应失败: %w", err)}
	}
	if resp.Node.Category.CategoryID == "" {
		return nil, &model.UpstreamSchemaError{Source: model.SourceTaxonomy, Field: "categorySubtreeNode"}
	}

	// 属性定义拉取失败不致命，该种子的item_specifics退化为空
	aspects, err := a.fetchAspects(ctx, treeID, seed, token)
	if err != nil {
		if model.IsFatal(err) {
			return nil, err
		}
		a.logger.WithError(err).WithField("seed", seed).Warn("类目属性定义拉取失败，该种子不产出属性")
		aspects = nil
	}

	flat := model.FlattenTaxonomyTree(resp.Node, "", aspects)
	if len(flat) > remaining {
		flat = flat[:remaining]
	}
	records := make([]*model.RawRecord, 0, len(flat))
	for _, rec := range flat {
		records = append(records, &model.RawRecord{
			Source: model.SourceTaxonomy,
			ID:     rec.CategoryID,
			Data:   rec,
		})
	}
	return records, nil
}

// fetchAspects 拉取种子类目适用的属性名列表
func (a *Adapter) fetchAspects(ctx context.Context, treeID, seed, token string) ([]string, error) {
	u := fmt.Sprintf("%s/category_tree/%s/get_item_aspects_for_category?category_id=%s", a.srcCfg.BaseURL, treeID, seed)
	a.calls++
	body, err := httpclient.GetJSON(ctx, a.httpClient, model.SourceTaxonomy, u, a.bearer(token), httpclient.PolicyFromSource(a.srcCfg), a.logger)
	if err != nil {
		return nil, err
	}

	var resp model.TaxonomyAspectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &model.UpstreamSchemaError{Source: model.SourceTaxonomy, Err: fmt.Errorf("解析属性定义响应失败: %w", err)}
	}
	names := make([]string, 0, len(resp.Aspects))
	for _, asp := range resp.Aspects {
		if asp.LocalizedAspectName != "" {
			names = append(names, asp.LocalizedAspectName)
		}
	}
	return names, nil
}

func (a *Adapter) bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// splitSeeds 解析逗号分隔的种子列表：去空白、去空串、保序去重
func splitSeeds(queryOrID string) []string {
	parts := strings.Split(queryOrID, ",")
	seen := make(map[string]struct{}, len(parts))
	seeds := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		seeds = append(seeds, p)
	}
	return seeds
}

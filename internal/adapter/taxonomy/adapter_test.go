package taxonomy

import (
	"context"
	"net/http"
	"testing"

	"EbaySync/internal/adapter"
	"EbaySync/internal/config"
	"EbaySync/internal/model"

	"github.com/jarcoal/httpmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testTokenURL   = "https://oauth.test/identity/v1/oauth2/token"
	treeIDURL      = `=~^https://taxonomy\.test/commerce/taxonomy/v1/get_default_category_tree_id`
	subtreePattern = `=~^https://taxonomy\.test/commerce/taxonomy/v1/category_tree/0/get_category_subtree`
	aspectsPattern = `=~^https://taxonomy\.test/commerce/taxonomy/v1/category_tree/0/get_item_aspects_for_category`
)

const subtreeBody = `{"categoryTreeId": "0", "categorySubtreeNode": {
	"category": {"categoryId": "9355", "categoryName": "Cell Phones & Smartphones"},
	"categoryTreeNodeLevel": 1,
	"childCategoryTreeNodes": [
		{"category": {"categoryId": "9394", "categoryName": "Smartphones"}, "categoryTreeNodeLevel": 2, "leafCategoryTreeNode": true},
		{"category": {"categoryId": "20349", "categoryName": "Accessories"}, "categoryTreeNodeLevel": 2, "leafCategoryTreeNode": true}
	]
}}`

const aspectsBody = `{"aspects": [
	{"localizedAspectName": "Brand", "aspectConstraint": {"aspectRequired": true}},
	{"localizedAspectName": "Model", "aspectConstraint": {"aspectRequired": false}}
]}`

func testConfig() *config.Config {
	return &config.Config{
		Ebay: config.EbayConfig{
			ClientID:     "cid",
			ClientSecret: "secret",
			Marketplace:  "EBAY_US",
			OAuthURL:     testTokenURL,
			OAuthScope:   "https://api.ebay.com/oauth/api_scope",
		},
		Sources: map[string]config.SourceConfig{
			"taxonomy": {
				BaseURL:        "https://taxonomy.test/commerce/taxonomy/v1",
				Timeout:        5,
				RetryCount:     2,
				RetryBackoffMs: 1,
			},
		},
	}
}

func newTestAdapter(t *testing.T, cfg *config.Config) *Adapter {
	t.Helper()
	logger := logrus.New()
	a := NewTaxonomyAdapter(cfg, adapter.NewTokenSource(cfg, logger), logger).(*Adapter)

	httpmock.Activate()
	httpmock.ActivateNonDefault(a.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewStringResponder(200, `{"access_token":"tok-123","expires_in":7200}`))
	httpmock.RegisterResponder("GET", treeIDURL,
		httpmock.NewStringResponder(200, `{"categoryTreeId": "0", "categoryTreeVersion": "129"}`))
	return a
}

func TestTaxonomyFetchFlattensSubtree(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.RegisterResponder("GET", subtreePattern, httpmock.NewStringResponder(200, subtreeBody))
	httpmock.RegisterResponder("GET", aspectsPattern, httpmock.NewStringResponder(200, aspectsBody))

	records, err := a.Fetch(context.Background(), "9355", 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// 先序展平：种子在前，子节点随后
	require.Equal(t, "9355", records[0].ID)
	require.Equal(t, "9394", records[1].ID)
	require.Equal(t, "20349", records[2].ID)

	root, ok := records[0].Data.(model.TaxonomyCategoryRecord)
	require.True(t, ok)
	require.Empty(t, root.ParentCategoryID)
	require.Equal(t, []string{"Brand", "Model"}, root.Aspects)

	child, ok := records[1].Data.(model.TaxonomyCategoryRecord)
	require.True(t, ok)
	require.Equal(t, "9355", child.ParentCategoryID)
	require.Equal(t, 2, child.Level)

	// 树ID+子树+属性定义共三次调用
	require.Equal(t, 3, a.CallsMade())
}

func TestTaxonomyFetchTruncatesAtLimit(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.RegisterResponder("GET", subtreePattern, httpmock.NewStringResponder(200, subtreeBody))
	httpmock.RegisterResponder("GET", aspectsPattern, httpmock.NewStringResponder(200, aspectsBody))

	records, err := a.Fetch(context.Background(), "9355", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "9355", records[0].ID)
	require.Equal(t, "9394", records[1].ID)
}

func TestTaxonomyFetchMultipleSeedsDeduped(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	subtreeCalls := 0
	httpmock.RegisterResponder("GET", subtreePattern, func(req *http.Request) (*http.Response, error) {
		subtreeCalls++
		return httpmock.NewStringResponse(200, subtreeBody), nil
	})
	httpmock.RegisterResponder("GET", aspectsPattern, httpmock.NewStringResponder(200, aspectsBody))

	// 重复种子保序去重，只拉一次
	records, err := a.Fetch(context.Background(), "9355, 9355 ,", 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 1, subtreeCalls)
}

func TestTaxonomyFetchPartialSeedFailureTolerated(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.RegisterResponder("GET", subtreePattern, func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("category_id") == "625" {
			return httpmock.NewStringResponse(404, "category gone"), nil
		}
		return httpmock.NewStringResponse(200, subtreeBody), nil
	})
	httpmock.RegisterResponder("GET", aspectsPattern, httpmock.NewStringResponder(200, aspectsBody))

	records, err := a.Fetch(context.Background(), "625,9355", 10)
	require.NoError(t, err, "单种子失败不应阻塞整次抓取")
	require.Len(t, records, 3)
}

func TestTaxonomyFetchAllSeedsFailedReturnsError(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.RegisterResponder("GET", subtreePattern, httpmock.NewStringResponder(404, "category gone"))

	_, err := a.Fetch(context.Background(), "625,626", 10)
	var schemaErr *model.UpstreamSchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestTaxonomyFetchAuthErrorAborts(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.RegisterResponder("GET", subtreePattern, httpmock.NewStringResponder(403, "forbidden"))

	_, err := a.Fetch(context.Background(), "625,9355", 10)
	var authErr *model.AuthenticationError
	require.ErrorAs(t, err, &authErr, "鉴权失败必须立即终止，不能按单种子容忍")
}

func TestTaxonomyFetchAspectsFailureNonFatal(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.RegisterResponder("GET", subtreePattern, httpmock.NewStringResponder(200, subtreeBody))
	httpmock.RegisterResponder("GET", aspectsPattern, httpmock.NewStringResponder(500, "aspects down"))

	records, err := a.Fetch(context.Background(), "9355", 10)
	require.NoError(t, err, "属性定义拉取失败只应让该种子不产出属性")
	require.Len(t, records, 3)

	root := records[0].Data.(model.TaxonomyCategoryRecord)
	require.Empty(t, root.Aspects)
}

func TestTaxonomyFetchMissingTreeIDIsSchemaError(t *testing.T) {
	a := newTestAdapter(t, testConfig())
	httpmock.Reset()
	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewStringResponder(200, `{"access_token":"tok-123","expires_in":7200}`))
	httpmock.RegisterResponder("GET", treeIDURL, httpmock.NewStringResponder(200, `{}`))

	_, err := a.Fetch(context.Background(), "9355", 10)
	var schemaErr *model.UpstreamSchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "categoryTreeId", schemaErr.Field)
}

func TestTaxonomyFetchEmptySeedsRejected(t *testing.T) {
	a := newTestAdapter(t, testConfig())

	_, err := a.Fetch(context.Background(), " , ,", 10)
	var confErr *model.ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestSplitSeeds(t *testing.T) {
	require.Equal(t, []string{"9355", "625"}, splitSeeds("9355,625"))
	require.Equal(t, []string{"9355", "625"}, splitSeeds(" 9355 ,, 625 ,9355"))
	require.Empty(t, splitSeeds(" , "))
	require.Empty(t, splitSeeds(""))
}

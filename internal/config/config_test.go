package config

import (
	"errors"
	"testing"

	"EbaySync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "release", cfg.Server.Mode)
	require.Equal(t, 50, cfg.Pipeline.DefaultLimit)
	require.Equal(t, 1000, cfg.Pipeline.MaxLimit)
	require.Equal(t, "EBAY_US", cfg.Ebay.Marketplace)

	browse := cfg.SourceFor(model.SourceBrowse)
	require.Equal(t, "https://api.ebay.com/buy/browse/v1", browse.BaseURL)
	require.Equal(t, 3, browse.RetryCount)
	require.Equal(t, 500, browse.RetryBackoffMs)
	require.Equal(t, 50, browse.PageSize)

	finding := cfg.SourceFor(model.SourceFinding)
	require.Equal(t, "https://svcs.ebay.com/services/search/FindingService/v1", finding.BaseURL)
	require.Equal(t, 15, finding.Timeout)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("EBAY_CLIENT_ID", "cid-from-env")
	t.Setenv("EBAY_CLIENT_SECRET", "secret-from-env")
	t.Setenv("EBAY_APP_ID", "appid-from-env")
	t.Setenv("EBAY_PROXY", "http://127.0.0.1:7890")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost:5432/ebaysync")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "cid-from-env", cfg.Ebay.ClientID)
	require.Equal(t, "secret-from-env", cfg.Ebay.ClientSecret)
	require.Equal(t, "appid-from-env", cfg.Ebay.AppID)
	require.Equal(t, "postgres://u:p@localhost:5432/ebaysync", cfg.Postgres.DSN)

	for _, source := range []model.SourceType{model.SourceBrowse, model.SourceFinding, model.SourceTaxonomy} {
		require.Equal(t, "http://127.0.0.1:7890", cfg.SourceFor(source).Proxy, "source=%s", source)
	}
}

func TestValidateCredentialsMissing(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateCredentials()
	require.Error(t, err)

	var confErr *model.ConfigurationError
	require.True(t, errors.As(err, &confErr))
	require.ElementsMatch(t, []string{"ebay.client_id", "ebay.client_secret", "ebay.app_id"}, confErr.Fields)

	cfg.Ebay.ClientID = "cid"
	err = cfg.ValidateCredentials()
	require.True(t, errors.As(err, &confErr))
	require.ElementsMatch(t, []string{"ebay.client_secret", "ebay.app_id"}, confErr.Fields)
}

func TestValidateCredentialsComplete(t *testing.T) {
	cfg := &Config{
		Ebay: EbayConfig{ClientID: "cid", ClientSecret: "secret", AppID: "appid"},
	}
	require.NoError(t, cfg.ValidateCredentials())
}

func TestSourceForUnknown(t *testing.T) {
	cfg := &Config{}
	src := cfg.SourceFor(model.SourceType("nope"))
	require.Empty(t, src.BaseURL)
	require.Zero(t, src.RetryCount)
}

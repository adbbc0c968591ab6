package api

import (
	"testing"

	"EbaySync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestValidTableName(t *testing.T) {
	for _, name := range model.AllTables() {
		require.True(t, validTableName(name))
	}
	require.False(t, validTableName("orders"))
	require.False(t, validTableName(""))
	require.False(t, validTableName("Listings"))
}

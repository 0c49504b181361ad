// file: internal/services/service_collection_test.go
package services

import (
	"testing"

	"ecotrack/internal/cache"
	"ecotrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServiceCollectionRequiresDatabase(t *testing.T) {
	cacheClient := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	defer cacheClient.Close()

	collection, err := NewServiceCollection(nil, cacheClient, &config.Config{}, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, collection)
	assert.Contains(t, err.Error(), "repositories")
}

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voloshyn/leks-tap-bot/internal/config"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
)

func TestProxyForIndexAssignsByPosition(t *testing.T) {
	proxies := []string{"http://p1:8080", "http://p2:8080"}

	proxy, exhausted := ProxyForIndex(proxies, 0)
	assert.Equal(t, "http://p1:8080", proxy)
	assert.False(t, exhausted)

	proxy, exhausted = ProxyForIndex(proxies, 1)
	assert.Equal(t, "http://p2:8080", proxy)
	assert.False(t, exhausted)
}

func TestProxyForIndexFallsBackToDirect(t *testing.T) {
	proxies := []string{"http://p1:8080"}

	// Three accounts, one proxy: only the first gets it, the rest connect
	// directly and the fallback is flagged for a warning.
	proxy, exhausted := ProxyForIndex(proxies, 0)
	assert.Equal(t, "http://p1:8080", proxy)
	assert.False(t, exhausted)

	for idx := 1; idx < 3; idx++ {
		proxy, exhausted = ProxyForIndex(proxies, idx)
		assert.Empty(t, proxy)
		assert.True(t, exhausted)
	}
}

func TestProxyForIndexEmptyList(t *testing.T) {
	proxy, exhausted := ProxyForIndex(nil, 0)
	assert.Empty(t, proxy)
	assert.False(t, exhausted)
}

func TestRunBatchWithoutIdentityStore(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(dataFile, []byte("blob\n"), 0o644))

	// No BaseURL: the account's register call fails immediately, which the
	// pipeline absorbs. The batch itself must complete without a store.
	a := New(config.Config{DataFile: dataFile})
	log := logger.NewNamed("RunCoordinator", nil)

	require.NoError(t, a.runBatch(nil, log))
}

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/events"
)

// testConfig points the global cfg at a throwaway SQLite database.
// Tests call RunE directly, bypassing Execute, so the command contexts
// Execute would install are set here.
func testConfig(t *testing.T) {
	t.Helper()
	cfg = &config.Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = filepath.Join(t.TempDir(), "test.db")
	cfg.Import.DefaultAgent = "dana"
	cfg.Cadence.AdvanceCron = "0 6 * * *"
	cfg.Server.Port = 0

	rootCmd.SetContext(context.Background())
	for _, c := range rootCmd.Commands() {
		c.SetContext(context.Background())
	}
}

func TestCommandContext_SetForDirectRunE(t *testing.T) {
	testConfig(t)
	require.NotNil(t, importCmd.Context())
	require.NotNil(t, transitionCmd.Context())
}

func TestInitStore_SQLite(t *testing.T) {
	testConfig(t)

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	counts, err := st.CountLeadsByStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestInitStore_UnsupportedDriver(t *testing.T) {
	testConfig(t)
	cfg.Store.Driver = "mysql"

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestInitBus_DefaultsToLog(t *testing.T) {
	testConfig(t)

	bus, flush := initBus()
	defer flush()
	assert.IsType(t, events.LogBus{}, bus)
}

func TestInitBus_Webhook(t *testing.T) {
	testConfig(t)
	cfg.Notify.WebhookURL = "http://127.0.0.1:1/events"
	cfg.Notify.RatePerSec = 5
	cfg.Notify.Burst = 10

	bus, flush := initBus()
	defer flush()
	assert.IsType(t, &events.WebhookBus{}, bus)
}

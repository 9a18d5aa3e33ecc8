package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINSIGHT_DATA_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.03, cfg.RiskFreeRate)
	assert.Equal(t, 252, cfg.TradingDaysPerYear)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_DATA_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9100")
	t.Setenv("RISK_FREE_RATE", "0.045")
	t.Setenv("TRADING_DAYS_PER_YEAR", "260")
	t.Setenv("BACKUP_S3_BUCKET", "finsight-dumps")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 0.045, cfg.RiskFreeRate)
	assert.Equal(t, 260, cfg.TradingDaysPerYear)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "finsight-dumps", cfg.Backup.Bucket)
}

func TestValidateRejectsMissingJWTSecret(t *testing.T) {
	t.Setenv("FINSIGHT_DATA_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DEV_MODE", "false")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRejectsBadTradingDays(t *testing.T) {
	cfg := &Config{TradingDaysPerYear: 0, JWTSecret: "x"}
	err := cfg.Validate()
	require.Error(t, err)
}

package ai

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

func TestDisabledAnalyzerReturnsNotice(t *testing.T) {
	analyzer := NewAnalyzer("", zerolog.Nop())
	require.False(t, analyzer.Enabled())

	text, err := analyzer.AnalyzeAsset(context.Background(), AssetContext{Symbol: "AAPL"}, domain.MetricsRecord{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DisabledNotice, text)

	text, err = analyzer.DailySummary(context.Background(), "2026-08-30", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DisabledNotice, text)

	text, err = analyzer.AnalyzeMacro(context.Background(), "US", nil)
	require.NoError(t, err)
	assert.Equal(t, DisabledNotice, text)

	text, err = analyzer.AnalyzePortfolio(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DisabledNotice, text)
}

func TestFmtMetric(t *testing.T) {
	record := domain.MetricsRecord{
		domain.MetricSharpeRatio: 1.2345,
		domain.MetricBeta:        math.NaN(),
	}

	assert.Equal(t, "1.23", fmtMetric(record, domain.MetricSharpeRatio))
	assert.Equal(t, "N/A", fmtMetric(record, domain.MetricBeta))
	assert.Equal(t, "N/A", fmtMetric(record, domain.MetricAlpha))
}

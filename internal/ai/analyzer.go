// Package ai provides LLM-backed narrative analysis for assets, portfolios,
// macro indicators and daily market summaries. Without an API key the
// analyzer runs disabled and returns a fixed notice instead of failing, so
// every analysis endpoint stays functional.
package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/domain"
)

const defaultModel = "gpt-4o-mini"

// DisabledNotice is returned by every method when no API key is configured.
const DisabledNotice = "AI analysis is not available. Please configure an API key."

const systemPrompt = "You are a financial analyst writing for retail investors. " +
	"Be concrete, cite the numbers you are given, and never invent data."

// Analyzer generates narrative analyses through the OpenAI chat API.
type Analyzer struct {
	client  oa.Client
	model   string
	enabled bool
	log     zerolog.Logger
}

// NewAnalyzer creates an analyzer. An empty apiKey yields a disabled analyzer
// whose methods return DisabledNotice.
func NewAnalyzer(apiKey string, log zerolog.Logger) *Analyzer {
	a := &Analyzer{
		model: defaultModel,
		log:   log.With().Str("component", "ai").Logger(),
	}
	if apiKey == "" {
		a.log.Warn().Msg("No API key configured, AI analysis disabled")
		return a
	}

	a.client = oa.NewClient(option.WithAPIKey(apiKey))
	a.enabled = true
	a.log.Info().Str("model", a.model).Msg("AI analyzer initialized")
	return a
}

// Enabled reports whether the analyzer has a working API configuration.
func (a *Analyzer) Enabled() bool { return a.enabled }

// AssetContext carries the descriptive fields included in asset prompts.
type AssetContext struct {
	Symbol string
	Name   string
	Sector string
	Market string
}

// IndexQuote is one market index line in the daily summary prompt.
type IndexQuote struct {
	Name          string
	Price         float64
	ChangePercent float64
}

// Holding is one portfolio position line in the portfolio prompt.
type Holding struct {
	Symbol      string
	Quantity    float64
	AverageCost float64
}

// AnalyzeAsset writes an investment analysis for one asset from its metrics
// record and recent headlines.
func (a *Analyzer) AnalyzeAsset(ctx context.Context, asset AssetContext, record domain.MetricsRecord, headlines []string) (string, error) {
	if !a.enabled {
		return DisabledNotice, nil
	}

	var b strings.Builder
	b.WriteString("Analyze the following asset and provide investment insights:\n\n")
	b.WriteString("**Asset Information:**\n")
	fmt.Fprintf(&b, "- Symbol: %s\n", asset.Symbol)
	fmt.Fprintf(&b, "- Name: %s\n", orNA(asset.Name))
	fmt.Fprintf(&b, "- Sector: %s\n", orNA(asset.Sector))
	fmt.Fprintf(&b, "- Market: %s\n\n", orNA(asset.Market))

	b.WriteString("**Performance Metrics:**\n")
	fmt.Fprintf(&b, "- Annualized Return: %s%%\n", fmtMetric(record, domain.MetricAnnualizedReturn))
	fmt.Fprintf(&b, "- Volatility: %s%%\n", fmtMetric(record, domain.MetricVolatility))
	fmt.Fprintf(&b, "- Sharpe Ratio: %s\n", fmtMetric(record, domain.MetricSharpeRatio))
	fmt.Fprintf(&b, "- Beta: %s\n", fmtMetric(record, domain.MetricBeta))
	fmt.Fprintf(&b, "- Max Drawdown: %s%%\n", fmtMetric(record, domain.MetricMaxDrawdown))

	if len(headlines) > 0 {
		b.WriteString("\n**Recent News:**\n")
		for i, title := range headlines {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		}
	}

	b.WriteString(`
Please provide:
1. **Performance Analysis**: Evaluate the asset's historical performance and risk profile
2. **Risk Assessment**: Analyze the risk factors and volatility
3. **Investment Outlook**: Provide a forward-looking perspective
4. **Recommendation**: Give a clear buy/hold/sell recommendation with rationale

Keep the analysis concise (200-300 words) and actionable.
`)

	return a.generate(ctx, b.String())
}

// DailySummary writes the daily market summary from index quotes and top
// movers.
func (a *Analyzer) DailySummary(ctx context.Context, date string, indices []IndexQuote, gainers, losers []IndexQuote) (string, error) {
	if !a.enabled {
		return DisabledNotice, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a comprehensive daily market summary for %s:\n\n", date)
	b.WriteString("**Market Indices:**\n")
	for _, idx := range indices {
		fmt.Fprintf(&b, "- %s: %.2f (%+.2f%%)\n", idx.Name, idx.Price, idx.ChangePercent)
	}

	b.WriteString("\n**Top Movers:**\n")
	if len(gainers) > 0 {
		b.WriteString("Gainers:\n")
		for _, g := range gainers {
			fmt.Fprintf(&b, "- %s: %+.2f%%\n", g.Name, g.ChangePercent)
		}
	}
	if len(losers) > 0 {
		b.WriteString("\nLosers:\n")
		for _, l := range losers {
			fmt.Fprintf(&b, "- %s: %+.2f%%\n", l.Name, l.ChangePercent)
		}
	}

	b.WriteString(`
Please provide:
1. **Market Overview**: Summarize today's market movements
2. **Key Drivers**: Identify main factors affecting the market
3. **Sector Performance**: Highlight sector trends
4. **Outlook**: Brief perspective on market direction

Keep it concise (250-350 words) and informative.
`)

	return a.generate(ctx, b.String())
}

// AnalyzeMacro writes an analysis of a country's macro indicators from their
// latest values.
func (a *Analyzer) AnalyzeMacro(ctx context.Context, country string, latest map[string]float64) (string, error) {
	if !a.enabled {
		return DisabledNotice, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the macroeconomic indicators for %s:\n\n", country)
	b.WriteString("**Economic Metrics:**\n")
	for name, value := range latest {
		fmt.Fprintf(&b, "- %s: %.2f\n", strings.ToUpper(name), value)
	}

	b.WriteString(`
Please provide:
1. **Economic Health**: Assess the overall economic condition
2. **Key Trends**: Identify important trends in the data
3. **Policy Implications**: Discuss potential policy impacts
4. **Investment Impact**: How might these indicators affect investments?

Keep the analysis concise (250-350 words) and focused on investment implications.
`)

	return a.generate(ctx, b.String())
}

// AnalyzePortfolio writes an analysis of a portfolio's holdings and
// aggregate metrics.
func (a *Analyzer) AnalyzePortfolio(ctx context.Context, holdings []Holding, metrics map[string]float64) (string, error) {
	if !a.enabled {
		return DisabledNotice, nil
	}

	var b strings.Builder
	b.WriteString("Analyze the following investment portfolio:\n\n**Holdings:**\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "- %s: %g shares @ $%.2f\n", h.Symbol, h.Quantity, h.AverageCost)
	}

	b.WriteString("\n**Portfolio Metrics:**\n")
	fmt.Fprintf(&b, "- Total Value: $%.2f\n", metrics["total_value"])
	fmt.Fprintf(&b, "- Total Return: %.2f%%\n", metrics["total_return"])

	b.WriteString(`
Please provide:
1. **Diversification Analysis**: Assess portfolio diversification
2. **Risk Profile**: Evaluate overall portfolio risk
3. **Performance Review**: Analyze returns and risk-adjusted performance
4. **Recommendations**: Suggest improvements or rebalancing strategies

Keep it concise (250-350 words) and actionable.
`)

	return a.generate(ctx, b.String())
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: a.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func fmtMetric(record domain.MetricsRecord, key string) string {
	value, ok := record[key]
	if !ok || math.IsNaN(value) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", value)
}

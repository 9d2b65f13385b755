package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhzhang/astock-advisor/internal/models"
)

func sampleSnapshot() models.FactorSnapshot {
	return models.FactorSnapshot{
		RSI14:        55.1234,
		MACD:         models.MACDValue{Line: 0.1234, Signal: 0.0987, Histogram: 0.0247},
		Bollinger:    models.BollingerValue{Upper: 11.25, Middle: 10.5, Lower: 9.75},
		MA5:          10.24,
		MA12:         10.11,
		MA20:         9.98,
		MA72:         9.4321,
		AvgTurnover5: 1.2345,
		VolumeRatio:  2.5,
		LastClose:    10.55,
	}
}

func sampleCandles() []models.Candle {
	return []models.Candle{
		{Date: "2024-01-02", Open: 10.1, Close: 10.3, High: 10.4, Low: 10.0, Volume: 120000, Turnover: 1.2},
		{Date: "2024-01-03", Open: 10.3, Close: 10.55, High: 10.6, Low: 10.2, Volume: 150000, Turnover: 1.5},
	}
}

func TestRenderPrompt_FactorsAppearVerbatim(t *testing.T) {
	snapshot := sampleSnapshot()
	prompt := RenderPrompt("600519", "贵州茅台", snapshot, sampleCandles(), []float64{3000.1, 3010.5}, nil, nil)

	assert.Contains(t, prompt, "贵州茅台 (600519) 进行深度分析")
	assert.Contains(t, prompt, "- 当前价: 10.55 (MA5: 10.24, MA12: 10.11, MA20: 9.98, MA72: 9.43)")
	assert.Contains(t, prompt, "- RSI (14): 55.12 (震荡区间)")
	assert.Contains(t, prompt, "- MACD: DIF(0.123), DEA(0.099), 柱值(0.025)")
	assert.Contains(t, prompt, "- 布林线(Bollinger): 上轨(11.25), 中轨(10.50), 下轨(9.75)")
	assert.Contains(t, prompt, "- 近5日平均换手率: 1.23% | 量比: 2.50")
}

func TestRenderPrompt_RSILabels(t *testing.T) {
	tests := []struct {
		rsi   float64
		label string
	}{
		{75.0, "超买风险"},
		{25.0, "超跌机会"},
		{50.0, "震荡区间"},
		{70.0, "震荡区间"}, // boundary is exclusive
		{30.0, "震荡区间"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			snapshot := sampleSnapshot()
			snapshot.RSI14 = tt.rsi
			prompt := RenderPrompt("600519", "贵州茅台", snapshot, nil, nil, nil, nil)
			assert.Contains(t, prompt, fmt.Sprintf("- RSI (14): %.2f (%s)", tt.rsi, tt.label))
		})
	}
}

func TestRenderPrompt_SentimentSection(t *testing.T) {
	t.Run("empty digest uses placeholder", func(t *testing.T) {
		prompt := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), nil, nil, nil, nil)
		assert.Contains(t, prompt, NoSentimentPlaceholder)
	})

	t.Run("news lines truncate date to day", func(t *testing.T) {
		news := []models.NewsItem{
			{Title: "业绩预告发布", Date: "2024-01-03 09:15:00", Summary: "ignored"},
		}
		prompt := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), nil, nil, news, nil)
		assert.Contains(t, prompt, "- [2024-01-03] 业绩预告发布")
		assert.NotContains(t, prompt, NoSentimentPlaceholder)
		assert.NotContains(t, prompt, "09:15:00")
	})
}

func TestRenderPrompt_CandleTable(t *testing.T) {
	prompt := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), sampleCandles(), nil, nil, nil)

	assert.Contains(t, prompt, "2024-01-02|开:10.1|收:10.3|高:10.4|低:10|量:120000|换手:1.2%")
	assert.Contains(t, prompt, "2024-01-03|开:10.3|收:10.55|高:10.6|低:10.2|量:150000|换手:1.5%")
}

func TestRenderPrompt_BenchmarkCloses(t *testing.T) {
	prompt := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), nil, []float64{3000.1, 3010.5, 2998}, nil, nil)
	assert.Contains(t, prompt, "3000.1, 3010.5, 2998")
}

func TestRenderPrompt_HoldingBlock(t *testing.T) {
	holding := &models.HoldingInfo{Status: "holding", Cost: 1650.5, Quantity: 200, Profit: -1234.56}

	with := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), nil, nil, nil, holding)
	assert.Contains(t, with, "【当前持仓状态】:")
	assert.Contains(t, with, "- 持仓状态: holding")
	assert.Contains(t, with, "- 成本价: 1650.50")
	assert.Contains(t, with, "- 持仓数量: 200")
	assert.Contains(t, with, "- 浮动盈亏: -1234.56")

	without := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), nil, nil, nil, nil)
	assert.NotContains(t, without, "【当前持仓状态】")
}

// Factor values parsed back out of the rendered text must match the snapshot
// to the rendered precision.
func TestRenderPrompt_NumericRoundTrip(t *testing.T) {
	snapshot := models.FactorSnapshot{
		RSI14:        63.7719,
		MACD:         models.MACDValue{Line: -0.84215, Signal: -0.79083, Histogram: -0.05132},
		Bollinger:    models.BollingerValue{Upper: 1723.448, Middle: 1688.905, Lower: 1654.362},
		MA5:          1690.118,
		MA12:         1685.774,
		MA20:         1688.905,
		MA72:         1672.339,
		AvgTurnover5: 0.5567,
		VolumeRatio:  43102.8841,
		LastClose:    1700.2,
	}
	prompt := RenderPrompt("600519", "贵州茅台", snapshot, nil, nil, nil, nil)

	var rsi, ma5, ma12, ma20, ma72 float64
	_, err := fmt.Sscanf(
		lineWith(t, prompt, "- 当前价:"),
		"- 当前价: 1700.2 (MA5: %f, MA12: %f, MA20: %f, MA72: %f)",
		&ma5, &ma12, &ma20, &ma72,
	)
	require.NoError(t, err)
	assert.InDelta(t, snapshot.MA5, ma5, 0.005)
	assert.InDelta(t, snapshot.MA12, ma12, 0.005)
	assert.InDelta(t, snapshot.MA20, ma20, 0.005)
	assert.InDelta(t, snapshot.MA72, ma72, 0.005)

	_, err = fmt.Sscanf(lineWith(t, prompt, "- RSI (14):"), "- RSI (14): %f", &rsi)
	require.NoError(t, err)
	assert.InDelta(t, snapshot.RSI14, rsi, 0.005)

	var dif, dea, hist float64
	_, err = fmt.Sscanf(
		lineWith(t, prompt, "- MACD:"),
		"- MACD: DIF(%f), DEA(%f), 柱值(%f)",
		&dif, &dea, &hist,
	)
	require.NoError(t, err)
	assert.InDelta(t, snapshot.MACD.Line, dif, 0.0005)
	assert.InDelta(t, snapshot.MACD.Signal, dea, 0.0005)
	assert.InDelta(t, snapshot.MACD.Histogram, hist, 0.0005)
}

func lineWith(t *testing.T, text, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	t.Fatalf("no line with prefix %q", prefix)
	return ""
}

func TestRenderPrompt_TaskInstructionsPresent(t *testing.T) {
	prompt := RenderPrompt("600519", "贵州茅台", sampleSnapshot(), nil, nil, nil, nil)

	for _, section := range []string{
		"1. **量价与主力动能**",
		"2. **舆情与情绪面**",
		"3. **形态与波动边界**",
		"4. **实战操作指令**",
		"600519 (贵州茅台) 深度因子与舆情分析报告",
	} {
		assert.True(t, strings.Contains(prompt, section), "missing section %q", section)
	}
}

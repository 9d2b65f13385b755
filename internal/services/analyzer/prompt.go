package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lhzhang/astock-advisor/internal/models"
	"github.com/lhzhang/astock-advisor/internal/signals"
)

// NoSentimentPlaceholder is rendered when the news digest is empty.
const NoSentimentPlaceholder = "暂无近期重大舆情"

// rsiLabel maps an RSI classification to its prompt wording.
func rsiLabel(rsi float64) string {
	switch signals.ClassifyRSI(rsi) {
	case signals.RSIOverbought:
		return "超买风险"
	case signals.RSIOversold:
		return "超跌机会"
	default:
		return "震荡区间"
	}
}

// num renders a float the way the source data carried it, without forcing a
// fixed precision. Candle prices and volumes keep their original digits.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderPrompt produces the advisory prompt as a pure function of its
// structured inputs. Every computed factor appears verbatim in the text:
// prices and moving averages at two decimals, MACD values at three.
func RenderPrompt(
	symbol, name string,
	snapshot models.FactorSnapshot,
	recent []models.Candle,
	benchmarkCloses []float64,
	news []models.NewsItem,
	holding *models.HoldingInfo,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "你是一名拥有15年经验的 A 股量化交易专家，擅长短线博弈与情绪周期分析。请对 %s (%s) 进行深度分析。\n\n", name, symbol)

	b.WriteString("【深度因子指标】:\n")
	fmt.Fprintf(&b, "- 当前价: %s (MA5: %.2f, MA12: %.2f, MA20: %.2f, MA72: %.2f)\n",
		num(snapshot.LastClose), snapshot.MA5, snapshot.MA12, snapshot.MA20, snapshot.MA72)
	fmt.Fprintf(&b, "- RSI (14): %.2f (%s)\n", snapshot.RSI14, rsiLabel(snapshot.RSI14))
	fmt.Fprintf(&b, "- MACD: DIF(%.3f), DEA(%.3f), 柱值(%.3f)\n",
		snapshot.MACD.Line, snapshot.MACD.Signal, snapshot.MACD.Histogram)
	fmt.Fprintf(&b, "- 布林线(Bollinger): 上轨(%.2f), 中轨(%.2f), 下轨(%.2f)\n",
		snapshot.Bollinger.Upper, snapshot.Bollinger.Middle, snapshot.Bollinger.Lower)
	fmt.Fprintf(&b, "- 近5日平均换手率: %.2f%% | 量比: %.2f\n\n", snapshot.AvgTurnover5, snapshot.VolumeRatio)

	if holding != nil {
		b.WriteString("【当前持仓状态】:\n")
		fmt.Fprintf(&b, "- 持仓状态: %s\n", holding.Status)
		fmt.Fprintf(&b, "- 成本价: %.2f\n", holding.Cost)
		fmt.Fprintf(&b, "- 持仓数量: %s\n", num(holding.Quantity))
		fmt.Fprintf(&b, "- 浮动盈亏: %.2f\n\n", holding.Profit)
	}

	b.WriteString("【近期舆情与公告 (Sentiment)】:\n")
	if len(news) == 0 {
		b.WriteString(NoSentimentPlaceholder)
		b.WriteString("\n")
	} else {
		for _, n := range news {
			date := n.Date
			if len(date) > 10 {
				date = date[:10]
			}
			fmt.Fprintf(&b, "- [%s] %s\n", date, n.Title)
		}
	}
	b.WriteString("\n")

	b.WriteString("【近20日详细OHLCV交易数据】:\n")
	for _, c := range recent {
		fmt.Fprintf(&b, "%s|开:%s|收:%s|高:%s|低:%s|量:%d|换手:%s%%\n",
			c.Date, num(c.Open), num(c.Close), num(c.High), num(c.Low), c.Volume, num(c.Turnover))
	}
	b.WriteString("\n")

	b.WriteString("【同期大盘(上证指数)参考】:\n")
	closeStrs := make([]string, len(benchmarkCloses))
	for i, v := range benchmarkCloses {
		closeStrs[i] = num(v)
	}
	b.WriteString(strings.Join(closeStrs, ", "))
	b.WriteString("\n\n")

	b.WriteString(`【分析任务】:
1. **量价与主力动能**: 结合成交量、量比和 MACD。分析是否存在“放量突破”、“缩量回调”或“高位滞涨”。识别当前是主力吸筹、洗盘还是派发阶段。
2. **舆情与情绪面**: 结合【近期舆情与公告】，判断是否存在利好催化或利空风险（如业绩预告、减持、行业政策）。
3. **形态与波动边界**: 观察布林线张口状态。判断当前价格是否触及压力/支撑位，并结合 A 股 T+1 制度，评估今日买入后的次日溢价可能性。
4. **实战操作指令**: 给出明确的交易计划。
   - **操作评级**: (看多/观望/减仓)
   - **仓位建议**: (0-100%)
   - **具体点位**: 建议买入点、目标卖出点、硬性止损位。

请以专业、简洁的 Markdown 格式输出。

#### `)
	fmt.Fprintf(&b, "%s (%s) 深度因子与舆情分析报告\n\n", symbol, name)
	b.WriteString(`#### 1. 量价与动能分析:
...

#### 2. 舆情与情绪面解读:
...

#### 3. 形态与综合研判:
...

#### 4. 操盘手指令 (Trade Plan):
- **策略**: ...
- **入场**: ...
- **止损**: ...
- **仓位**: ...

请在回复时，段落之间务必保留一个完整的空行（即使用两次换行符），以确保 Markdown 渲染正常。
`)

	return b.String()
}

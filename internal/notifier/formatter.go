package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"ChanSentinel/internal/chanlun"
	"ChanSentinel/internal/model"
)

var pointLabels = map[model.TradePointType]string{
	model.Buy1:  "一买",
	model.Buy2:  "二买",
	model.Buy3:  "三买",
	model.Sell1: "一卖",
	model.Sell2: "二卖",
	model.Sell3: "三卖",
}

func pointIcon(t model.TradePointType) string {
	if t.IsBuy() {
		return "🟢"
	}
	return "🔴"
}

func trendLabel(t model.TrendType) string {
	switch t {
	case model.TrendUp:
		return "上涨趋势"
	case model.TrendDown:
		return "下跌趋势"
	case model.Consolidation:
		return "盘整"
	case model.TrendUnknown:
		return "未知"
	}
	return string(t)
}

func directionLabel(d model.Direction) string {
	switch d {
	case model.Up:
		return "向上"
	case model.Down:
		return "向下"
	}
	return string(d)
}

// FormatTradePoint formats one trade point as a single line.
func FormatTradePoint(tp model.TradePoint) string {
	return fmt.Sprintf("%s <b>%s</b> %s @ %.2f (强度 %.2f)\n   %s",
		pointIcon(tp.Type), pointLabels[tp.Type], tp.Time.Format("2006-01-02"), tp.Price, tp.Strength,
		html.EscapeString(tp.Description))
}

// FormatLevelSummary lists the structure counts of every level.
func FormatLevelSummary(res *chanlun.MultiLevelResult) string {
	var b strings.Builder
	b.WriteString("🧱 <b>级别结构:</b>\n")
	for _, l := range res.Levels {
		b.WriteString(fmt.Sprintf("  L%d: K线 %d→%d | 分型 %d | 笔 %d | 线段 %d | 中枢 %d | 买卖点 %d\n",
			l.Level, len(l.Bars), len(l.Merged), len(l.Fractals), len(l.Strokes), len(l.Segments), len(l.Pivots), len(l.TradePoints)))
	}
	return b.String()
}

// FormatAnalysisReport formats an analysis into a Telegram message. points
// and nested are the signals worth alerting on, usually the new ones.
func FormatAnalysisReport(symbol string, res *chanlun.MultiLevelResult, points []model.TradePoint, nested []model.NestedTradePoint, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>ChanSentinel 缠论分析</b> | %s | %s\n\n", html.EscapeString(symbol), at.Format("2006-01-02 15:04")))

	base := res.Level(1)
	if base != nil && len(base.Bars) > 0 {
		last := base.Bars[len(base.Bars)-1]
		b.WriteString(fmt.Sprintf("最新收盘: %.2f (%s)\n", last.Close, last.Time.Format("2006-01-02")))
	}
	if base != nil && len(base.Strokes) > 0 {
		s := base.Strokes[len(base.Strokes)-1]
		b.WriteString(fmt.Sprintf("当前笔: %s %.2f → %.2f\n", directionLabel(s.Direction), s.StartPrice(), s.EndPrice()))
	}
	if base != nil && len(base.Pivots) > 0 {
		p := base.Pivots[len(base.Pivots)-1]
		b.WriteString(fmt.Sprintf("最近中枢: [%.2f, %.2f] %s\n", p.Low, p.High, trendLabel(p.Trend)))
	}
	b.WriteString("\n")
	b.WriteString(FormatLevelSummary(res))

	if len(points) > 0 {
		b.WriteString("\n🎯 <b>买卖点:</b>\n")
		for _, tp := range points {
			b.WriteString(FormatTradePoint(tp))
			b.WriteString("\n")
		}
	}

	if len(nested) > 0 {
		b.WriteString("\n🔗 <b>多级别共振:</b>\n")
		for _, np := range nested {
			levels := make([]string, len(np.ConfirmedLevels))
			for i, l := range np.ConfirmedLevels {
				levels[i] = fmt.Sprintf("L%d", l)
			}
			b.WriteString(fmt.Sprintf("%s <b>%s</b> %s @ %.2f 确认于 %s (强度 %.2f)\n",
				pointIcon(np.Type), pointLabels[np.Type], np.Time.Format("2006-01-02"), np.Price,
				strings.Join(levels, ","), np.Strength))
		}
	}

	if len(points) == 0 && len(nested) == 0 {
		b.WriteString("\n暂无新的买卖点")
	}
	return b.String()
}

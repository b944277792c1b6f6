package reporting

import (
	"fmt"
	"strings"

	"crypto-quant-lab/internal/domain"
)

// RenderTradesCSV renders backtest trades as a CSV string.
func RenderTradesCSV(trades []domain.TradeRecord) string {
	var sb strings.Builder

	sb.WriteString("side,bar_index,timestamp_ms,price,quantity\n")
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.8f,%.8f\n",
			t.Side, t.BarIndex, t.TimestampMs, t.Price, t.Quantity))
	}

	return sb.String()
}

// RenderEquityCSV renders an equity curve as a CSV string.
func RenderEquityCSV(curve domain.EquityCurve) string {
	var sb strings.Builder

	sb.WriteString("bar_index,timestamp_ms,equity\n")
	for _, p := range curve {
		sb.WriteString(fmt.Sprintf("%d,%d,%.8f\n", p.BarIndex, p.TimestampMs, p.Equity))
	}

	return sb.String()
}

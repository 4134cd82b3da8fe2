package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"VolumeSentinel/internal/classifier"
	"VolumeSentinel/internal/model"
	"VolumeSentinel/internal/pipeline"
)

const dateLayout = "2006-01-02"

// maxProfileLines caps how many trailing profiles a report lists.
const maxProfileLines = 5

// FormatPrice renders a price with two decimals, "n/a" when undefined.
func FormatPrice(l model.Level) string {
	if !l.Valid {
		return "n/a"
	}
	return decimal.NewFromFloat(l.Price).StringFixed(2)
}

// FormatRunReport formats one run into a Telegram message.
// eval and pred may be nil.
func FormatRunReport(runID string, res *pipeline.Result, eval *classifier.Report, pred *model.Prediction) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>VolumeSentinel</b> | %s\n", res.Symbol))
	b.WriteString(fmt.Sprintf("run: %s\n", runID))
	b.WriteString(fmt.Sprintf("bars: %d | days: %d | rows: %d\n\n", res.Bars, len(res.Profiles), len(res.Rows)))

	if len(res.Profiles) > 0 {
		b.WriteString("📈 <b>Value area:</b>\n")
		start := len(res.Profiles) - maxProfileLines
		if start < 0 {
			start = 0
		}
		for _, p := range res.Profiles[start:] {
			b.WriteString(fmt.Sprintf("  %s  VAL %s | POC %s | VAH %s\n",
				p.Date.Format(dateLayout), FormatPrice(p.VAL), FormatPrice(p.POC), FormatPrice(p.VAH)))
		}
		b.WriteString("\n")
	}

	if eval != nil && eval.Samples > 0 {
		b.WriteString(fmt.Sprintf("🧪 <b>Hold-out:</b> n=%d acc %s | prec %s | rec %s\n\n",
			eval.Samples, pct(eval.Accuracy), pct(eval.Precision), pct(eval.Recall)))
	}

	if pred != nil {
		b.WriteString(FormatSignal(pred))
	}

	if len(res.Warnings) > 0 {
		b.WriteString("\n⚠️ <b>Warnings:</b>\n")
		for _, w := range res.Warnings {
			b.WriteString(fmt.Sprintf("  %s\n", w.String()))
		}
	}

	return b.String()
}

// FormatSignal formats the latest prediction.
func FormatSignal(pred *model.Prediction) string {
	icon := "🔴"
	if pred.Signal == model.SignalFavorable {
		icon = "🟢"
	}
	return fmt.Sprintf("%s <b>Signal %s:</b> %s (p=%s, %s)\n   open&gt;VAL: %d | open&gt;VAH: %d\n",
		icon, pred.Date.Format(dateLayout), pred.Signal, pct(pred.Probability), pred.Classifier,
		pred.OpenAbovePriorVAL, pred.OpenAbovePriorVAH)
}

// FormatFailure formats a failed run.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>VolumeSentinel</b> | %s run failed: %v", symbol, err)
}

func pct(v float64) string {
	return decimal.NewFromFloat(v * 100).StringFixed(1) + "%"
}

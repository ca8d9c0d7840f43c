package notifier

import (
	"fmt"
	"strings"

	"ETFSwitch/internal/model"

	"github.com/shopspring/decimal"
)

// FormatRunStart is the banner sent when a rebalance begins.
func FormatRunStart(dryRun bool) string {
	if dryRun {
		return "📌 <b>ETF switching</b> (dry run)"
	}
	return "📌 <b>ETF switching</b>"
}

// FormatCapital reports the investable capital of the account.
func FormatCapital(capital float64) string {
	return fmt.Sprintf("🌱 Available capital: ₩%s", won(capital))
}

// FormatPlan renders the scored target book.
func FormatPlan(capital float64, limit int, book []model.ScoredCandidate) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Target book</b> | limit %d per category\n", limit))
	if len(book) == 0 {
		b.WriteString("No candidate qualified.")
		return b.String()
	}
	b.WriteString("<pre>")
	category := ""
	for _, c := range book {
		if c.Category != category {
			category = c.Category
			b.WriteString(fmt.Sprintf("[%s]\n", html(category)))
		}
		amount := decimal.NewFromFloat(c.CapitalRatio).Mul(decimal.NewFromFloat(capital))
		b.WriteString(fmt.Sprintf("%s %s\n  mom %s risk %s ratio %s\n  ₩%s x%s\n",
			c.Symbol, html(c.Name),
			round3(c.Momentum), round3(c.Risk), round3(c.CapitalRatio),
			won(amount.InexactFloat64()), round3(c.Quantity)))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatOrders renders the results of one order side.
func FormatOrders(side model.Side, results []model.OrderResult) string {
	title := "👋 Sell"
	if side == model.SideBuy {
		title = "🤗 Buy"
	}
	if len(results) == 0 {
		return fmt.Sprintf("%s: nothing to do.", title)
	}
	var b strings.Builder
	b.WriteString(title)
	for _, r := range results {
		b.WriteString(fmt.Sprintf("\n📋 %s %s : %d", r.Intent.Symbol, html(r.Intent.Name), r.Shares))
		b.WriteString(fmt.Sprintf("\n%s %s", statusIcon(r.Status), html(r.Message)))
	}
	return b.String()
}

// FormatIntents lists order intents without submitting them.
func FormatIntents(side model.Side, intents []model.OrderIntent) string {
	title := "👋 Would sell"
	if side == model.SideBuy {
		title = "🤗 Would buy"
	}
	if len(intents) == 0 {
		return fmt.Sprintf("%s: nothing.", title)
	}
	var b strings.Builder
	b.WriteString(title)
	for _, in := range intents {
		b.WriteString(fmt.Sprintf("\n📋 %s %s : %s", in.Symbol, html(in.Name), round3(in.Quantity)))
	}
	return b.String()
}

// FormatHoldings lists the current positions.
func FormatHoldings(holdings []model.Holding) string {
	if len(holdings) == 0 {
		return "📦 No positions held."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Holdings</b>")
	for _, h := range holdings {
		b.WriteString(fmt.Sprintf("\n%s %s : %d", h.Symbol, html(h.Name), h.Quantity))
	}
	return b.String()
}

// FormatError reports a failed run.
func FormatError(err error) string {
	return fmt.Sprintf("❌ <b>Run failed</b>\n%s", html(err.Error()))
}

func statusIcon(s model.OrderStatus) string {
	switch s {
	case model.OrderSuccess:
		return "✅"
	case model.OrderSkipped:
		return "⏭"
	default:
		return "❌"
	}
}

func round3(v float64) string {
	return decimal.NewFromFloat(v).Round(3).String()
}

// won formats a whole-won amount with thousands separators.
func won(v float64) string {
	s := decimal.NewFromFloat(v).Floor().String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func html(s string) string { return htmlEscaper.Replace(s) }

package chatbot

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

// DisplayCategory turns a slug such as "mobile-accessories" into
// "Mobile Accessories".
func DisplayCategory(slug string) string {
	// a Caser keeps state, so one per call
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// formatProducts renders the intro followed by one block per product. The
// products are returned unchanged so text and list stay in the same order.
func formatProducts(intro string, products []product.Product) Reply {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "🔸 **%s**\n", p.Name)
		fmt.Fprintf(&b, "   Category: %s\n", DisplayCategory(p.Category))
		fmt.Fprintf(&b, "   Price: $%.2f\n", p.Price)
		fmt.Fprintf(&b, "   Rating: %s/5.0\n", formatDecimal(p.Rating))
		if p.InStock() {
			fmt.Fprintf(&b, "   Stock: %d available\n", p.Stock)
		} else {
			b.WriteString("   Status: Out of stock\n")
		}
		b.WriteString("\n")
	}
	return Reply{Text: b.String(), Products: products}
}

// formatDecimal prints the shortest representation of v with at least one
// fractional digit: 4 -> "4.0", 4.56 -> "4.56".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

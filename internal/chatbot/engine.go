// Package chatbot answers free-text shopping questions with a reply text and
// the catalog products it mentions. Classification is keyword based and the
// engine keeps no state between calls.
package chatbot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

// Catalog is the read-only product store the engine queries.
type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	ListByCategories(ctx context.Context, categories []string, limit int) ([]product.Product, error)
	SearchAny(ctx context.Context, terms []string) ([]product.Product, error)
	ListByPrice(ctx context.Context, q product.PriceQuery) ([]product.Product, error)
}

// Reply is the outcome of one chat turn. Text is never empty. Products is
// empty unless products were matched and written into Text.
type Reply struct {
	Text     string            `json:"text"`
	Products []product.Product `json:"products"`
}

type Engine struct {
	catalog Catalog
	intn    func(n int) int
}

type Option func(*Engine)

// WithRandom replaces the source used to pick from the response pools. intn
// must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) {
		if intn != nil {
			e.intn = intn
		}
	}
}

func New(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: catalog, intn: rand.IntN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateResponse classifies message and builds the reply. userID is
// accepted for personalisation and currently unused. An error is returned
// only when the catalog fails.
func (e *Engine) GenerateResponse(ctx context.Context, message string, userID int) (Reply, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(msg, greetingKeywords):
		return e.pick(Greetings), nil
	case containsAny(msg, farewellKeywords):
		return e.pick(Farewells), nil
	case containsAny(msg, helpKeywords):
		return Reply{Text: HelpText, Products: []product.Product{}}, nil
	}
	return e.search(ctx, msg)
}

func (e *Engine) pick(pool []string) Reply {
	return Reply{Text: pool[e.intn(len(pool))], Products: []product.Product{}}
}

func (e *Engine) search(ctx context.Context, msg string) (Reply, error) {
	categories, err := e.matchCategories(ctx, msg)
	if err != nil {
		return Reply{}, err
	}
	if len(categories) > 0 {
		return e.browseCategories(ctx, msg, categories)
	}

	if containsAny(msg, searchVerbs) {
		return e.searchTerms(ctx, msg)
	}
	if containsAny(msg, priceWords) {
		return e.searchPrice(ctx, msg)
	}

	if terms := extractTerms(msg); len(terms) > 0 {
		found, err := e.catalog.SearchAny(ctx, terms)
		if err != nil {
			return Reply{}, fmt.Errorf("search products: %w", err)
		}
		if len(found) > 0 {
			return formatProducts(introFallback, head(found, searchLimit)), nil
		}
	}
	return e.pick(Defaults), nil
}

// matchCategories unions the slugs of every broad term found in msg with
// every catalog slug found in msg, keeping first-seen order.
func (e *Engine) matchCategories(ctx context.Context, msg string) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	add := func(slug string) {
		if _, ok := seen[slug]; ok {
			return
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}

	for _, bt := range broadTerms {
		if strings.Contains(msg, bt.Term) {
			for _, slug := range bt.Categories {
				add(slug)
			}
		}
	}

	slugs, err := e.catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for _, slug := range slugs {
		if strings.TrimSpace(slug) == "" {
			continue
		}
		lower := strings.ToLower(slug)
		if strings.Contains(msg, lower) || strings.Contains(msg, strings.ReplaceAll(lower, "-", " ")) {
			add(slug)
		}
	}
	return out, nil
}

func (e *Engine) browseCategories(ctx context.Context, msg string, categories []string) (Reply, error) {
	found, err := e.catalog.ListByCategories(ctx, categories, categoryLimit)
	if err != nil {
		return Reply{}, fmt.Errorf("list products by category: %w", err)
	}
	if len(found) == 0 {
		return Reply{Text: msgNoCategoryProducts, Products: []product.Product{}}, nil
	}
	return formatProducts(fmt.Sprintf(introCategory, categoryName(msg, categories)), found), nil
}

// categoryName picks the word used in the browse intro.
func categoryName(msg string, categories []string) string {
	for _, bt := range broadTerms {
		if strings.Contains(msg, bt.Term) {
			return bt.Term
		}
	}
	if len(categories) == 1 {
		return strings.ReplaceAll(categories[0], "-", " ")
	}
	return "matching"
}

func (e *Engine) searchTerms(ctx context.Context, msg string) (Reply, error) {
	terms := extractTerms(msg)
	if len(terms) == 0 {
		return Reply{Text: msgClarifySearch, Products: []product.Product{}}, nil
	}

	found, err := e.catalog.SearchAny(ctx, terms)
	if err != nil {
		return Reply{}, fmt.Errorf("search products: %w", err)
	}
	if len(found) == 0 {
		return Reply{Text: fmt.Sprintf(msgNoSearchResults, strings.Join(terms, " ")), Products: []product.Product{}}, nil
	}
	return formatProducts(fmt.Sprintf(introSearch, len(found)), head(found, searchLimit)), nil
}

func (e *Engine) searchPrice(ctx context.Context, msg string) (Reply, error) {
	var (
		q     product.PriceQuery
		intro string
	)
	switch {
	case strings.Contains(msg, "cheap") || strings.Contains(msg, "budget"):
		q = product.PriceQuery{Op: product.PriceBelow, Max: cheapCeiling, Order: product.OrderPriceAsc}
		intro = introCheap
	case strings.Contains(msg, "expensive") || strings.Contains(msg, "premium"):
		q = product.PriceQuery{Op: product.PriceAbove, Min: premiumFloor, Order: product.OrderPriceDesc}
		intro = introPremium
	default:
		prices := extractPrices(msg)
		if len(prices) < 2 {
			return Reply{Text: msgAskPriceRange, Products: []product.Product{}}, nil
		}
		// bounds are used in the order written
		q = product.PriceQuery{Op: product.PriceBetween, Min: prices[0], Max: prices[1]}
		intro = fmt.Sprintf(introRange, formatDecimal(prices[0]), formatDecimal(prices[1]))
	}
	q.Limit = priceLimit

	found, err := e.catalog.ListByPrice(ctx, q)
	if err != nil {
		return Reply{}, fmt.Errorf("list products by price: %w", err)
	}
	if len(found) == 0 {
		return Reply{Text: msgNoPriceResults, Products: []product.Product{}}, nil
	}
	return formatProducts(intro, found), nil
}

func head(products []product.Product, n int) []product.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}

package category

import (
	"context"
	"fmt"
	"slices"

	"github.com/wichananm65/shop-assistant-backend/internal/chatbot"
	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

// Catalog is the slice of the product repository the category listing reads.
type Catalog interface {
	List(ctx context.Context) ([]product.Product, error)
}

type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// List counts products per category, sorted by slug.
func (s *Service) List(ctx context.Context) (Listing, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list products: %w", err)
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	slugs := make([]string, 0, len(counts))
	for slug := range counts {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)

	items := make([]CategoryItem, 0, len(slugs))
	for _, slug := range slugs {
		items = append(items, CategoryItem{
			Slug:         slug,
			DisplayName:  chatbot.DisplayCategory(slug),
			ProductCount: counts[slug],
		})
	}
	return Listing{Categories: items, BroadTerms: chatbot.BroadTerms()}, nil
}

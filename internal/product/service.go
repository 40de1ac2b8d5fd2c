package product

import (
	"context"
	"fmt"
	"math"
)

// SearchLimit caps the result size of the search endpoint.
const SearchLimit = 20

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	if f == (Filter{}) {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, f)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Product, error) {
	if f.Limit <= 0 || f.Limit > SearchLimit {
		f.Limit = SearchLimit
	}
	return s.repo.Search(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int, p Product) (Product, error) {
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Import validates every row and stores the valid ones in one batch. Rows
// that fail validation are reported by their 1-based position.
func (s *Service) Import(ctx context.Context, rows []Product) ([]Product, map[int]map[string]string, error) {
	valid := make([]Product, 0, len(rows))
	rejected := make(map[int]map[string]string)
	for i, p := range rows {
		if errs := validatePayload(&p); len(errs) > 0 {
			rejected[i+1] = errs
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return []Product{}, rejected, nil
	}
	created, err := s.repo.CreateMany(ctx, valid)
	if err != nil {
		return nil, rejected, fmt.Errorf("import products: %w", err)
	}
	return created, rejected, nil
}

// validatePayload returns every field error at once, keyed by JSON field name.
func validatePayload(p *Product) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "name is required"
	} else if len(p.Name) > 255 {
		errs["name"] = "name must be at most 255 characters"
	}
	if p.Category == "" {
		errs["category"] = "category is required"
	} else if len(p.Category) > 50 {
		errs["category"] = "category must be at most 50 characters"
	}
	if p.Price < 0 || math.IsNaN(p.Price) {
		errs["price"] = "price must be >= 0"
	}
	if p.Stock < 0 {
		errs["stock"] = "stock must be >= 0"
	}
	if p.Rating < 0 || p.Rating > 5 || math.IsNaN(p.Rating) {
		errs["rating"] = "rating must be between 0 and 5"
	}
	return errs
}

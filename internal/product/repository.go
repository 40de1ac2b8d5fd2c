package product

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	// CreateMany inserts all products atomically (used by spreadsheet import).
	CreateMany(ctx context.Context, products []Product) ([]Product, error)
	Update(ctx context.Context, id int, p Product) (Product, error)
	Delete(ctx context.Context, id int) error

	// Categories returns the distinct category values, sorted.
	Categories(ctx context.Context) ([]string, error)
	// ListByCategories returns products whose category is one of categories.
	ListByCategories(ctx context.Context, categories []string, limit int) ([]Product, error)
	// SearchAny returns products where any term occurs in name, description
	// or category, case-insensitively. Each product appears once.
	SearchAny(ctx context.Context, terms []string) ([]Product, error)
	ListByPrice(ctx context.Context, q PriceQuery) ([]Product, error)
	Search(ctx context.Context, f Filter) ([]Product, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// running without a database. Storage order is ID order, as in the table.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	sort.SliceStable(r.storage, func(i, j int) bool { return r.storage[i].ID < r.storage[j].ID })

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(p), nil
}

func (r *InMemoryRepository) CreateMany(ctx context.Context, products []Product) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, r.insertLocked(p))
	}
	return out, nil
}

func (r *InMemoryRepository) insertLocked(p Product) Product {
	p.ID = r.nextID
	r.nextID++
	r.storage = append(r.storage, p)
	return p
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Categories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range r.storage {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *InMemoryRepository) ListByCategories(ctx context.Context, categories []string, limit int) ([]Product, error) {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	return r.collect(limit, func(p Product) bool { return wanted[p.Category] }), nil
}

func (r *InMemoryRepository) SearchAny(ctx context.Context, terms []string) ([]Product, error) {
	if len(terms) == 0 {
		return []Product{}, nil
	}
	return r.collect(0, func(p Product) bool {
		for _, t := range terms {
			if containsFold(p, t) {
				return true
			}
		}
		return false
	}), nil
}

func (r *InMemoryRepository) ListByPrice(ctx context.Context, q PriceQuery) ([]Product, error) {
	out := r.collect(0, func(p Product) bool { return q.matches(p.Price) })
	switch q.Order {
	case OrderPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case OrderPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Search(ctx context.Context, f Filter) ([]Product, error) {
	return r.collect(f.Limit, f.matches), nil
}

// collect returns matching products in storage order, stopping at limit when
// limit is positive.
func (r *InMemoryRepository) collect(limit int, match func(Product) bool) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range r.storage {
		if !match(p) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

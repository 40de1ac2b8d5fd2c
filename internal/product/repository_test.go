package product

import (
	"context"
	"testing"
)

func TestInMemory_ListByCategories_RespectsLimitAndOrder(t *testing.T) {
	seed := make([]Product, 0, 12)
	for i := 12; i >= 1; i-- {
		cat := "laptops"
		if i%2 == 0 {
			cat = "mobile-accessories"
		}
		seed = append(seed, Product{ID: i, Name: "P", Category: cat})
	}
	repo := NewInMemoryRepository(seed)

	got, err := repo.ListByCategories(context.Background(), []string{"laptops", "mobile-accessories"}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 products, got %d", len(got))
	}
	for i, p := range got {
		if p.ID != i+1 {
			t.Fatalf("expected id order, got %d at %d", p.ID, i)
		}
	}
}

func TestInMemory_SearchAny_IsCaseInsensitiveAndDistinct(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())

	got, _ := repo.SearchAny(context.Background(), []string{"APPLE", "laptop"})
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct products, got %+v", got)
	}
	if got[0].ID != 3 || got[1].ID != 4 {
		t.Fatalf("unexpected order: %+v", got)
	}

	none, _ := repo.SearchAny(context.Background(), nil)
	if len(none) != 0 {
		t.Fatalf("expected no results for empty terms")
	}
}

func TestInMemory_ListByPrice(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())
	ctx := context.Background()

	cheap, _ := repo.ListByPrice(ctx, PriceQuery{Op: PriceBelow, Max: 100, Order: OrderPriceAsc, Limit: 6})
	if len(cheap) != 1 || cheap[0].ID != 1 {
		t.Fatalf("unexpected cheap result %+v", cheap)
	}

	premium, _ := repo.ListByPrice(ctx, PriceQuery{Op: PriceAbove, Min: 500, Order: OrderPriceDesc, Limit: 6})
	if len(premium) != 2 || premium[0].ID != 3 || premium[1].ID != 5 {
		t.Fatalf("unexpected premium result %+v", premium)
	}

	between, _ := repo.ListByPrice(ctx, PriceQuery{Op: PriceBetween, Min: 129.99, Max: 799.99, Limit: 6})
	if len(between) != 3 || between[0].ID != 2 {
		t.Fatalf("unexpected range result %+v", between)
	}

	reversed, _ := repo.ListByPrice(ctx, PriceQuery{Op: PriceBetween, Min: 800, Max: 100, Limit: 6})
	if len(reversed) != 0 {
		t.Fatalf("reversed bounds must not be normalised, got %+v", reversed)
	}
}

func TestInMemory_CategoriesSortedDistinct(t *testing.T) {
	repo := NewInMemoryRepository(append(seedProducts(), Product{ID: 9, Name: "X", Category: "beauty"}))
	cats, _ := repo.Categories(context.Background())
	want := []string{"beauty", "fragrances", "furniture", "laptops", "mobile-accessories"}
	if len(cats) != len(want) {
		t.Fatalf("expected %v got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("expected %v got %v", want, cats)
		}
	}
}

func TestInMemory_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())
	created, _ := repo.CreateMany(context.Background(), []Product{{Name: "A", Category: "x"}, {Name: "B", Category: "x"}})
	if created[0].ID != 6 || created[1].ID != 7 {
		t.Fatalf("unexpected ids: %+v", created)
	}
}

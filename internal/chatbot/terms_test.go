package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

func TestExtractTerms(t *testing.T) {
	assert.Equal(t, []string{"red", "laptop"}, extractTerms("I am looking for a red laptop"))
	assert.Equal(t, []string{"wireless", "earphones"}, extractTerms("Show me WIRELESS earphones!"))
	assert.Equal(t, []string{"café"}, extractTerms("a café by me"))
	assert.Empty(t, extractTerms("find me an ox"))
}

func TestExtractPrices(t *testing.T) {
	assert.Equal(t, []float64{100, 200.5}, extractPrices("between $100 and $200.50"))
	assert.Equal(t, []float64{50}, extractPrices("under $50"))
	assert.Empty(t, extractPrices("no numbers here"))
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "mens", categoryName("mens shoes", []string{"mens-shirts", "mens-shoes", "mens-watches"}))
	assert.Equal(t, "home", categoryName("home-decoration", []string{"home-decoration"}))
	assert.Equal(t, "mobile accessories", categoryName("x", []string{"mobile-accessories"}))
	assert.Equal(t, "matching", categoryName("x", []string{"laptops", "beauty"}))
}

func TestFormatProducts(t *testing.T) {
	r := formatProducts("Intro:", []product.Product{
		{Name: "Apple AirPods", Category: "mobile-accessories", Price: 129.9, Rating: 4, Stock: 13},
		{Name: "Chanel Coco Noir", Category: "fragrances", Price: 129.99, Rating: 4.26},
	})

	want := "Intro:\n\n" +
		"🔸 **Apple AirPods**\n" +
		"   Category: Mobile Accessories\n" +
		"   Price: $129.90\n" +
		"   Rating: 4.0/5.0\n" +
		"   Stock: 13 available\n" +
		"\n" +
		"🔸 **Chanel Coco Noir**\n" +
		"   Category: Fragrances\n" +
		"   Price: $129.99\n" +
		"   Rating: 4.26/5.0\n" +
		"   Status: Out of stock\n" +
		"\n"
	assert.Equal(t, want, r.Text)
	assert.Len(t, r.Products, 2)
}

func TestBroadTermsIsACopy(t *testing.T) {
	terms := BroadTerms()
	terms[0].Categories[0] = "changed"
	assert.Equal(t, "laptops", broadTerms[0].Categories[0])
	assert.Equal(t, "electronics", terms[0].Term)
}

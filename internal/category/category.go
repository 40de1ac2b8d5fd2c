package category

import "github.com/wichananm65/shop-assistant-backend/internal/chatbot"

// CategoryItem is one catalog slug as returned by the category API.
type CategoryItem struct {
	Slug         string `json:"slug"`
	DisplayName  string `json:"display_name"`
	ProductCount int    `json:"product_count"`
}

// Listing is the category API response: concrete slugs plus the broad terms
// the assistant understands.
type Listing struct {
	Categories []CategoryItem      `json:"categories"`
	BroadTerms []chatbot.BroadTerm `json:"broad_terms"`
}

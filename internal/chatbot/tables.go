package chatbot

// BroadTerm maps a casual browsing word to the concrete category slugs it
// covers.
type BroadTerm struct {
	Term       string   `json:"term"`
	Categories []string `json:"categories"`
}

// broadTerms is ordered: the first contained term names the category in a
// reply.
var broadTerms = []BroadTerm{
	{Term: "electronics", Categories: []string{"laptops", "mobile-accessories"}},
	{Term: "technology", Categories: []string{"laptops", "mobile-accessories"}},
	{Term: "tech", Categories: []string{"laptops", "mobile-accessories"}},
	{Term: "computers", Categories: []string{"laptops"}},
	{Term: "mobile", Categories: []string{"mobile-accessories"}},
	{Term: "phones", Categories: []string{"mobile-accessories"}},
	{Term: "clothing", Categories: []string{"mens-shirts", "mens-shoes"}},
	{Term: "fashion", Categories: []string{"mens-shirts", "mens-shoes", "mens-watches"}},
	{Term: "mens", Categories: []string{"mens-shirts", "mens-shoes", "mens-watches"}},
	{Term: "shoes", Categories: []string{"mens-shoes"}},
	{Term: "shirts", Categories: []string{"mens-shirts"}},
	{Term: "watches", Categories: []string{"mens-watches"}},
	{Term: "accessories", Categories: []string{"mobile-accessories", "mens-watches"}},
	{Term: "home", Categories: []string{"furniture", "home-decoration", "kitchen-accessories"}},
	{Term: "kitchen", Categories: []string{"kitchen-accessories"}},
	{Term: "beauty", Categories: []string{"beauty", "fragrances"}},
	{Term: "cosmetics", Categories: []string{"beauty", "fragrances"}},
}

// BroadTerms returns a copy of the browse table in lookup order.
func BroadTerms() []BroadTerm {
	out := make([]BroadTerm, len(broadTerms))
	for i, bt := range broadTerms {
		out[i] = BroadTerm{Term: bt.Term, Categories: append([]string(nil), bt.Categories...)}
	}
	return out
}

var (
	greetingKeywords = []string{"hello", "hi", "hey", "greetings"}
	farewellKeywords = []string{"bye", "goodbye", "thanks", "thank you"}
	helpKeywords     = []string{"help", "assist", "support"}
	searchVerbs      = []string{"find", "search", "looking for", "need", "want", "show me"}
	priceWords       = []string{"price", "cost", "cheap", "expensive", "budget"}
)

var stopWords = map[string]struct{}{
	"i": {}, "am": {}, "looking": {}, "for": {}, "find": {}, "search": {},
	"show": {}, "me": {}, "can": {}, "you": {}, "the": {}, "a": {}, "an": {},
	"and": {}, "or": {}, "but": {}, "want": {}, "need": {},
}

// Greetings, Farewells and Defaults are the fixed response pools.
var (
	Greetings = []string{
		"Hello! I'm here to help you find the perfect products. What are you looking for today?",
		"Hi there! Welcome to our store. How can I assist you with your shopping?",
		"Greetings! I'm your personal shopping assistant. What can I help you find?",
	}
	Farewells = []string{
		"Thank you for shopping with us! Have a great day!",
		"Goodbye! Feel free to come back if you need any more help.",
		"Thanks for visiting! Hope you found what you were looking for.",
	}
	Defaults = []string{
		"I'm not sure I understand. Could you tell me what product you're looking for?",
		"Let me help you find what you need! What are you shopping for today?",
		"I'd be happy to help you find products. What can I assist you with?",
	}
)

const HelpText = `I'm here to help you find products! Here's what I can do:

🔍 **Search Products**: Just tell me what you're looking for
   Example: "I need a laptop" or "show me books"

📱 **Browse Categories**: Ask about these categories:
   - **Electronics** (laptops, mobile accessories)
   - **Fashion** (shirts, shoes, watches)
   - **Beauty** (cosmetics, fragrances)
   - **Home** (furniture, kitchen accessories, decoration)
   - **Groceries**

💰 **Price Queries**: Ask about pricing
   Example: "cheap electronics" or "products under $50"

⭐ **Product Details**: I can show you ratings, stock, and descriptions

Just type what you're looking for and I'll help you find it!`

const (
	msgNoCategoryProducts = "Sorry, I couldn't find any products in those categories at the moment."
	msgClarifySearch      = "I'd be happy to help you find products! Could you tell me what specific item you're looking for?"
	msgNoSearchResults    = "I couldn't find any products matching '%s'. Try searching for electronics, clothing, beauty products, or furniture."
	msgAskPriceRange      = "Could you specify a price range? For example, 'products under $50' or 'between $100 and $200'"
	msgNoPriceResults     = "Sorry, I couldn't find any products in that price range."

	introCategory = "Here are some great %s products:"
	introSearch   = "I found %d product(s) matching your search:"
	introFallback = "I found products matching your search:"
	introCheap    = "Here are some budget-friendly options under $100:"
	introPremium  = "Here are some premium products:"
	introRange    = "Products in the $%s-$%s range:"
)

const (
	categoryLimit = 8
	searchLimit   = 6
	priceLimit    = 6

	cheapCeiling = 100
	premiumFloor = 500
)

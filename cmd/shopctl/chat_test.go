package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wichananm65/shop-assistant-backend/internal/chatbot"
	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

func TestRunChat(t *testing.T) {
	repo := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Budget Mouse", Category: "mobile-accessories", Price: 19.99, Stock: 4, Rating: 4.1},
	})
	bot := chatbot.New(repo, chatbot.WithRandom(func(int) int { return 0 }))

	in := strings.NewReader("hello\n\ncheap stuff\nquit\nbye\n")
	var out bytes.Buffer
	require.NoError(t, runChat(t.Context(), bot, 1, in, &out))

	text := out.String()
	assert.Contains(t, text, chatbot.Greetings[0])
	assert.Contains(t, text, "**Budget Mouse**")
	assert.NotContains(t, text, chatbot.Farewells[0], "input after quit is ignored")
}

func TestLoadCatalog_SkipsInvalidRows(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo, err := loadCatalog(t.Context(), []product.Product{
		{Name: "Orphan Row", Price: 5},
		{Name: "MacBook Air", Category: "laptops", Price: 999, Stock: 2, Rating: 4.5},
	}, []int{4}, zap.New(core))
	require.NoError(t, err)

	all, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "MacBook Air", all[0].Name)
	assert.Equal(t, 1, logs.FilterMessage("invalid row").Len())
	assert.Equal(t, 1, logs.FilterMessage("unparsable row").Len())

	r, err := chatbot.New(repo).GenerateResponse(t.Context(), "asdkjasdkj", 0)
	require.NoError(t, err)
	assert.Contains(t, chatbot.Defaults, r.Text)
	assert.Empty(t, r.Products)
}

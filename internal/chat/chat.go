package chat

import (
	"encoding/json"
	"time"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageBot    MessageType = "bot"
	MessageSystem MessageType = "system"
)

// Session is one conversation owned by a user. SessionID is the public
// identifier used in URLs; ID is the row key.
type Session struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
	MessageCount int       `json:"message_count"`
}

type Message struct {
	ID              int               `json:"id"`
	SessionID       int               `json:"-"`
	MessageType     MessageType       `json:"message_type"`
	Content         string            `json:"content"`
	Timestamp       time.Time         `json:"timestamp"`
	RelatedProducts []product.Product `json:"related_products"`
}

const timestampLayout = "2006-01-02 15:04:05"

// MarshalJSON adds timestamp_formatted and always emits related_products as
// an array.
func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	out := struct {
		plain
		TimestampFormatted string `json:"timestamp_formatted"`
	}{
		plain:              plain(m),
		TimestampFormatted: m.Timestamp.Format(timestampLayout),
	}
	if out.RelatedProducts == nil {
		out.RelatedProducts = []product.Product{}
	}
	return json.Marshal(out)
}

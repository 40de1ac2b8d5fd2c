package chat

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	sessionSelect = `
		SELECT s.id, s.user_id, s.session_id, s.created_at, s.updated_at, s.is_active, COUNT(m.id)
		FROM chat_sessions s
		LEFT JOIN chat_messages m ON m.session_id = s.id
	`
	listSessionsQuery = sessionSelect + `
		WHERE s.user_id = $1
		GROUP BY s.id
		ORDER BY s.updated_at DESC, s.id DESC
	`
	getSessionQuery = sessionSelect + `
		WHERE s.user_id = $1 AND s.session_id = $2
		GROUP BY s.id
	`
	insertSessionQuery = `
		INSERT INTO chat_sessions (user_id, session_id, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	deleteSessionQuery = `DELETE FROM chat_sessions WHERE id = $1`
	touchSessionQuery  = `UPDATE chat_sessions SET updated_at = $1 WHERE id = $2`

	insertMessageQuery = `
		INSERT INTO chat_messages (session_id, message_type, content, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	insertMessageProductQuery = `
		INSERT INTO chat_message_products (message_id, product_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	listMessagesQuery = `
		SELECT id, session_id, message_type, content, timestamp
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY timestamp, id
	`
	listMessageProductsQuery = `
		SELECT mp.message_id, p.id, p.name, p.category, p.price::float8, p.description, p.stock, p.rating, p.image_url
		FROM chat_message_products mp
		JOIN products p ON p.id = mp.product_id
		WHERE mp.message_id = ANY($1::int[])
		ORDER BY mp.message_id, mp.position
	`
	clearMessagesQuery = `DELETE FROM chat_messages WHERE session_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSession(ctx context.Context, s Session) (Session, error) {
	var id int
	err := r.db.QueryRowContext(ctx, insertSessionQuery,
		s.UserID,
		s.SessionID,
		s.CreatedAt,
		s.UpdatedAt,
		s.IsActive,
	).Scan(&id)
	if err != nil {
		return Session{}, err
	}
	s.ID = id
	return s, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, userID int) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, listSessionsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetSession(ctx context.Context, userID int, sessionID string) (Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, getSessionQuery, userID, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, id int) error {
	return r.execAffecting(ctx, deleteSessionQuery, id)
}

func (r *PostgresRepository) TouchSession(ctx context.Context, id int, at time.Time) error {
	return r.execAffecting(ctx, touchSessionQuery, at, id)
}

func (r *PostgresRepository) execAffecting(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// AddMessage writes the message and its product links in one transaction.
func (r *PostgresRepository) AddMessage(ctx context.Context, m Message) (Message, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Message{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int
	if err := tx.QueryRowContext(ctx, insertMessageQuery, m.SessionID, string(m.MessageType), m.Content, m.Timestamp).Scan(&id); err != nil {
		return Message{}, err
	}
	for pos, p := range m.RelatedProducts {
		if _, err := tx.ExecContext(ctx, insertMessageProductQuery, id, p.ID, pos); err != nil {
			return Message{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Message{}, err
	}
	m.ID = id
	return m, nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context, sessionID int) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, listMessagesQuery, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	index := make(map[int]int)
	ids := make([]int64, 0)
	for rows.Next() {
		var (
			m   Message
			typ string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &typ, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.MessageType = MessageType(typ)
		m.RelatedProducts = []product.Product{}
		index[m.ID] = len(out)
		ids = append(ids, int64(m.ID))
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	prows, err := r.db.QueryContext(ctx, listMessageProductsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var (
			messageID int
			p         product.Product
			imageURL  sql.NullString
		)
		if err := prows.Scan(&messageID, &p.ID, &p.Name, &p.Category, &p.Price, &p.Description, &p.Stock, &p.Rating, &imageURL); err != nil {
			return nil, err
		}
		p.ImageURL = imageURL.String
		if i, ok := index[messageID]; ok {
			out[i].RelatedProducts = append(out[i].RelatedProducts, p)
		}
	}
	return out, prows.Err()
}

func (r *PostgresRepository) ClearMessages(ctx context.Context, sessionID int) error {
	_, err := r.db.ExecContext(ctx, clearMessagesQuery, sessionID)
	return err
}

func scanSession(scanner rowScanner) (Session, error) {
	s := Session{}
	if err := scanner.Scan(
		&s.ID,
		&s.UserID,
		&s.SessionID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.IsActive,
		&s.MessageCount,
	); err != nil {
		return Session{}, err
	}
	return s, nil
}

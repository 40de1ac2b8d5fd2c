package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

// price is NUMERIC(10,2); casting keeps scanning into float64 driver-agnostic.
const productColumns = `id, name, category, price::float8, description, stock, rating, image_url`

const (
	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, category, price, description, stock, rating, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			category = $2,
			price = $3,
			description = $4,
			stock = $5,
			rating = $6,
			image_url = $7
		WHERE id = $8
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`

	distinctCategoriesQuery = `SELECT DISTINCT category FROM products ORDER BY category`

	listByCategoriesQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = ANY($1::text[])
		ORDER BY id
		LIMIT NULLIF($2::int, 0)
	`
	searchAnyQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE ANY($1::text[])
		   OR description ILIKE ANY($1::text[])
		   OR category ILIKE ANY($1::text[])
		ORDER BY id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	row := r.db.QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		insertProductQuery,
		p.Name,
		p.Category,
		p.Price,
		p.Description,
		p.Stock,
		p.Rating,
		p.ImageURL,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

// CreateMany inserts the products in a single transaction; either all rows
// land or none do.
func (r *PostgresRepository) CreateMany(ctx context.Context, products []Product) ([]Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]Product, 0, len(products))
	for _, p := range products {
		var id int
		err := tx.QueryRowContext(ctx, insertProductQuery,
			p.Name,
			p.Category,
			p.Price,
			p.Description,
			p.Stock,
			p.Rating,
			p.ImageURL,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		p.ID = id
		out = append(out, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	result, err := r.db.ExecContext(ctx,
		updateProductQuery,
		p.Name,
		p.Category,
		p.Price,
		p.Description,
		p.Stock,
		p.Rating,
		p.ImageURL,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, distinctCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByCategories(ctx context.Context, categories []string, limit int) ([]Product, error) {
	if len(categories) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.QueryContext(ctx, listByCategoriesQuery, pq.Array(categories), limit)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *PostgresRepository) SearchAny(ctx context.Context, terms []string) ([]Product, error) {
	if len(terms) == 0 {
		return []Product{}, nil
	}
	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		patterns = append(patterns, "%"+escapeLike(t)+"%")
	}
	rows, err := r.db.QueryContext(ctx, searchAnyQuery, pq.Array(patterns))
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *PostgresRepository) ListByPrice(ctx context.Context, q PriceQuery) ([]Product, error) {
	var (
		where string
		args  []any
	)
	switch q.Op {
	case PriceBelow:
		where, args = "price < $1", []any{q.Max}
	case PriceAbove:
		where, args = "price > $1", []any{q.Min}
	case PriceBetween:
		where, args = "price >= $1 AND price <= $2", []any{q.Min, q.Max}
	default:
		return nil, fmt.Errorf("unknown price op %d", q.Op)
	}

	order := "id"
	switch q.Order {
	case OrderPriceAsc:
		order = "price ASC, id"
	case OrderPriceDesc:
		order = "price DESC, id"
	}

	args = append(args, q.Limit)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s LIMIT NULLIF($%d::int, 0)`,
		productColumns, where, order, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, f Filter) ([]Product, error) {
	conds := make([]string, 0, 6)
	args := make([]any, 0, 6)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		p := next("%" + escapeLike(f.Query) + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR category ILIKE %[1]s)", p))
	}
	if f.Category != "" {
		conds = append(conds, "category ILIKE "+next("%"+escapeLike(f.Category)+"%"))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+next(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+next(*f.MaxPrice))
	}
	if f.MinRating != nil {
		conds = append(conds, "rating >= "+next(*f.MinRating))
	}
	if f.InStockOnly {
		conds = append(conds, "stock > 0")
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + next(f.Limit))
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// escapeLike neutralises LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var imageURL sql.NullString
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Price,
		&p.Description,
		&p.Stock,
		&p.Rating,
		&imageURL,
	); err != nil {
		return Product{}, err
	}
	if imageURL.Valid {
		p.ImageURL = imageURL.String
	}
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

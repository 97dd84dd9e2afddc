package store

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

//go:embed schema.sql
var schemaSQL string

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// so every query path is unit-testable without a live database.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects a pgx pool and wraps it in a PostgresStore.
func NewPostgres(ctx context.Context, connString string, maxConns int32) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	if maxConns > 0 {
		pgxCfg.MaxConns = maxConns
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	st := &PostgresStore{pool: pool}
	if err := st.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return st, nil
}

// EnsureSchema applies the embedded schema. Every statement is
// IF NOT EXISTS, so running it on each startup is safe.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return eris.Wrap(err, "postgres: apply schema")
	}
	return nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// GetProductByASIN fetches a product and its ordered bullets.
func (s *PostgresStore) GetProductByASIN(ctx context.Context, asin string) (*Product, error) {
	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, asin, title, description, created_at, updated_at
		FROM products WHERE asin = $1`, asin).
		Scan(&p.ID, &p.ASIN, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: get product %s", asin)
	}

	bullets, err := s.productBullets(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Bullets = bullets
	return p, nil
}

func (s *PostgresStore) productBullets(ctx context.Context, productID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT bullet_text FROM product_bullets
		WHERE product_id = $1 ORDER BY bullet_order`, productID)
	if err != nil {
		return nil, eris.Wrapf(err, "store: get bullets for product %d", productID)
	}
	defer rows.Close()

	var bullets []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, eris.Wrap(err, "store: scan bullet")
		}
		bullets = append(bullets, b)
	}
	return bullets, rows.Err()
}

// CreateProduct inserts the product and its bullets in one transaction.
func (s *PostgresStore) CreateProduct(ctx context.Context, p *Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "store: create product: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, `
		INSERT INTO products (asin, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		p.ASIN, p.Title, p.Description).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return eris.Wrapf(err, "store: create product %s", p.ASIN)
	}

	if err := insertBullets(ctx, tx, "product_bullets", "product_id", p.ID, p.Bullets); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "store: create product: commit")
	}
	return nil
}

// UpdateProduct replaces title, description and the full bullet set.
func (s *PostgresStore) UpdateProduct(ctx context.Context, asin string, p *Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "store: update product: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var productID int64
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE asin = $1`, asin).Scan(&productID)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return eris.Wrapf(err, "store: update product %s", asin)
	}

	_, err = tx.Exec(ctx, `
		UPDATE products SET title = $1, description = $2, updated_at = now()
		WHERE id = $3`, p.Title, p.Description, productID)
	if err != nil {
		return eris.Wrapf(err, "store: update product %s", asin)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_bullets WHERE product_id = $1`, productID); err != nil {
		return eris.Wrapf(err, "store: clear bullets for product %d", productID)
	}
	if err := insertBullets(ctx, tx, "product_bullets", "product_id", productID, p.Bullets); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "store: update product: commit")
	}
	p.ID = productID
	p.ASIN = asin
	return nil
}

// CreateOptimization stores one generation result with its child rows.
func (s *PostgresStore) CreateOptimization(ctx context.Context, productID int64, o *Optimization) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "store: create optimization: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, `
		INSERT INTO optimizations (product_id, optimized_title, optimized_description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		productID, o.Title, o.Description).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return eris.Wrapf(err, "store: create optimization for product %d", productID)
	}

	if err := insertBullets(ctx, tx, "optimized_bullets", "optimization_id", o.ID, o.Bullets); err != nil {
		return err
	}

	for _, kw := range o.Keywords {
		_, err := tx.Exec(ctx, `
			INSERT INTO suggested_keywords (optimization_id, keyword)
			VALUES ($1, $2)`, o.ID, kw)
		if err != nil {
			return eris.Wrapf(err, "store: insert keyword for optimization %d", o.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "store: create optimization: commit")
	}
	o.ProductID = productID
	return nil
}

// HistoryByProductID returns the optimization history, newest first.
func (s *PostgresStore) HistoryByProductID(ctx context.Context, productID int64) ([]Optimization, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, optimized_title, optimized_description, created_at
		FROM optimizations WHERE product_id = $1
		ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, eris.Wrapf(err, "store: history for product %d", productID)
	}
	defer rows.Close()

	var history []Optimization
	var ids []int64
	for rows.Next() {
		var o Optimization
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Title, &o.Description, &o.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan optimization")
		}
		history = append(history, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: history rows")
	}
	if len(history) == 0 {
		return []Optimization{}, nil
	}

	bullets, err := s.childTexts(ctx, `
		SELECT optimization_id, bullet_text FROM optimized_bullets
		WHERE optimization_id = ANY($1) ORDER BY optimization_id, bullet_order`, ids)
	if err != nil {
		return nil, err
	}
	keywords, err := s.childTexts(ctx, `
		SELECT optimization_id, keyword FROM suggested_keywords
		WHERE optimization_id = ANY($1) ORDER BY optimization_id, id`, ids)
	if err != nil {
		return nil, err
	}

	for i := range history {
		history[i].Bullets = bullets[history[i].ID]
		history[i].Keywords = keywords[history[i].ID]
	}
	return history, nil
}

// childTexts loads (parent id, text) pairs grouped by parent.
func (s *PostgresStore) childTexts(ctx context.Context, sql string, ids []int64) (map[int64][]string, error) {
	rows, err := s.pool.Query(ctx, sql, ids)
	if err != nil {
		return nil, eris.Wrap(err, "store: query child rows")
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var parentID int64
		var text string
		if err := rows.Scan(&parentID, &text); err != nil {
			return nil, eris.Wrap(err, "store: scan child row")
		}
		out[parentID] = append(out[parentID], text)
	}
	return out, rows.Err()
}

// insertBullets writes ordered bullet rows within the caller's transaction.
func insertBullets(ctx context.Context, tx pgx.Tx, table, fkColumn string, parentID int64, bullets []string) error {
	for i, b := range bullets {
		_, err := tx.Exec(ctx,
			`INSERT INTO `+table+` (`+fkColumn+`, bullet_text, bullet_order) VALUES ($1, $2, $3)`,
			parentID, b, i+1)
		if err != nil {
			return eris.Wrapf(err, "store: insert bullet into %s", table)
		}
	}
	return nil
}

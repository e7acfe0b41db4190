package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

const (
	queryTimeout = 3 * time.Second
	txTimeout    = 15 * time.Second

	productColumns = `id, product_name, product_type, price, tax, image, is_synced, created_at`
)

// sqlDialect captures the few places where the SQL backends disagree.
type sqlDialect struct {
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
	// case-sensitive substring test on product_name against one argument
	containsName string
}

// sqlProductRepository implements ProductRepository over database/sql.
// Queries are written with ? placeholders and rebound per dialect.
type sqlProductRepository struct {
	db      *sql.DB
	dialect sqlDialect
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *sqlProductRepository) rebind(query string) string {
	if !r.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 1
	for _, c := range query {
		if c == '?' {
			fmt.Fprintf(&b, "$%d", n)
			n++
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func scanProduct(s rowScanner) (models.Product, error) {
	var (
		p       models.Product
		image   sql.NullString
		created int64
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Type, &p.Price, &p.Tax, &image, &p.Synced, &created); err != nil {
		return models.Product{}, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}
	p.CreatedAt = time.UnixMilli(created)
	return p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *sqlProductRepository) list(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *sqlProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *sqlProductRepository) GetUnsynced(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_synced = ? ORDER BY id`, false)
}

func (r *sqlProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	if query == "" {
		return r.GetAll(ctx)
	}
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+r.dialect.containsName+` ORDER BY created_at DESC, id DESC`,
		query)
}

func (r *sqlProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return r.insert(ctx, r.db, p)
}

func (r *sqlProductRepository) insert(ctx context.Context, q rowQuerier, p models.Product) (models.Product, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if p.ID == 0 {
		query := `INSERT INTO products (product_name, product_type, price, tax, image, is_synced, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
		err := q.QueryRowContext(ctx, r.rebind(query),
			p.Name, p.Type, p.Price, p.Tax, nullString(p.Image), p.Synced, p.CreatedAt.UnixMilli()).Scan(&p.ID)
		return p, err
	}

	query := `INSERT INTO products (id, product_name, product_type, price, tax, image, is_synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			product_name = excluded.product_name,
			product_type = excluded.product_type,
			price = excluded.price,
			tax = excluded.tax,
			image = excluded.image,
			is_synced = excluded.is_synced,
			created_at = excluded.created_at
		RETURNING id`
	err := q.QueryRowContext(ctx, r.rebind(query),
		p.ID, p.Name, p.Type, p.Price, p.Tax, nullString(p.Image), p.Synced, p.CreatedAt.UnixMilli()).Scan(&p.ID)
	return p, err
}

func (r *sqlProductRepository) InsertMany(ctx context.Context, ps []models.Product) error {
	return r.execTx(ctx, func(tx *sql.Tx) error {
		for _, p := range ps {
			if _, err := r.insert(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqlProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET product_name = ?, product_type = ?, price = ?, tax = ?, image = ?, is_synced = ?, created_at = ?
		WHERE id = ?`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.rebind(query),
		p.Name, p.Type, p.Price, p.Tax, nullString(p.Image), p.Synced, p.CreatedAt.UnixMilli(), p.ID)
	if err != nil {
		return models.Product{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *sqlProductRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM products`)
	return err
}

func (r *sqlProductRepository) ReplaceAll(ctx context.Context, ps []models.Product, keepUnsynced bool) error {
	return r.execTx(ctx, func(tx *sql.Tx) error {
		var err error
		if keepUnsynced {
			_, err = tx.ExecContext(ctx, r.rebind(`DELETE FROM products WHERE is_synced = ?`), true)
		} else {
			_, err = tx.ExecContext(ctx, `DELETE FROM products`)
		}
		if err != nil {
			return fmt.Errorf("clear products: %w", err)
		}

		for _, p := range ps {
			if _, err := r.insert(ctx, tx, p); err != nil {
				return fmt.Errorf("insert %q: %w", p.Name, err)
			}
		}
		return nil
	})
}

// execTx runs fn inside a transaction, rolling back when fn fails.
func (r *sqlProductRepository) execTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

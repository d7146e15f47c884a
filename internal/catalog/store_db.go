package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

const productColumns = `
	id, name, category, price_cents, quantity, description,
	COALESCE(image, ''), created_at, updated_at
`

// MySQLStore persists the catalog in the products table.
type MySQLStore struct {
	db    *sql.DB
	floor int64
}

func NewMySQLStore(db *sql.DB, floorCents int64) *MySQLStore {
	return &MySQLStore{db: db, floor: floorCents}
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *MySQLStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+productColumns+`
			FROM products
			ORDER BY created_at DESC, id DESC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 32)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MySQLStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		p, err = s.getByID(ctx, s.db, id)
		return err
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *MySQLStore) Create(ctx context.Context, d Draft) (Product, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO products (name, category, price_cents, quantity, description, image)
			VALUES (?, ?, ?, ?, ?, NULLIF(?, ''))
		`, d.Name, d.Category, d.PriceCents, d.QuantityOrDefault(), d.Description, d.Image)
		if err != nil {
			return err
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		p, err = s.getByID(ctx, s.db, id)
		return err
	})

	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *MySQLStore) Update(ctx context.Context, id int64, d Draft) (Product, bool, error) {
	var (
		p     Product
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := s.getByID(ctx, tx, id); err == sql.ErrNoRows {
			return nil
		} else if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET name = ?, category = ?, price_cents = ?, quantity = ?,
			    description = ?, image = NULLIF(?, '')
			WHERE id = ?
		`, d.Name, d.Category, d.PriceCents, d.QuantityOrDefault(), d.Description, d.Image, id)
		if err != nil {
			return err
		}

		p, err = s.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		found = true
		return tx.Commit()
	})

	if err != nil {
		return Product{}, false, err
	}
	return p, found, nil
}

func (s *MySQLStore) Delete(ctx context.Context, id int64) (Product, bool, error) {
	var (
		p     Product
		found bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		p, err = s.getByID(ctx, tx, id)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
			return err
		}
		found = true
		return tx.Commit()
	})

	if err != nil {
		return Product{}, false, err
	}
	return p, found, nil
}

func (s *MySQLStore) BulkPriceUpdate(ctx context.Context, c PriceChange) (int64, error) {
	var affected int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var (
			set  string
			args []any
		)

		switch c.Mode {
		case ModePercentage:
			set = `price_cents = GREATEST(?, CAST(ROUND(price_cents * (1 + ? / 100)) AS SIGNED))`
			args = []any{s.floor, c.Delta}
		case ModeFixed:
			set = `price_cents = GREATEST(?, price_cents + ?)`
			args = []any{s.floor, int64(c.Delta)}
		}

		query := `UPDATE products SET ` + set
		if c.Scope != ScopeAll {
			query += ` WHERE category = ?`
			args = append(args, c.Scope)
		}

		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return 0, err
	}
	return affected, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *MySQLStore) getByID(ctx context.Context, q rowQuerier, id int64) (Product, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ?
	`, id)
	return scanProduct(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (Product, error) {
	var p Product
	err := sc.Scan(
		&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Quantity,
		&p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

const dateLayout = "2006-01-02"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ repository.ItemsRepository = (*itemsRepo)(nil)

type itemsRepo struct {
	q querier
}

func newItemsRepository(q querier) *itemsRepo {
	return &itemsRepo{q: q}
}

func (r *itemsRepo) Load(ctx context.Context) (entity.StockList, error) {
	var raw string
	var lastModified time.Time
	err := r.q.QueryRowContext(ctx, `SELECT last_modified FROM stock_list WHERE id = 1`).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return entity.StockList{}, fmt.Errorf("get stock list: %w", err)
	default:
		lastModified, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return entity.StockList{}, fmt.Errorf("parse last_modified %q: %w", raw, err)
		}
	}

	rows, err := r.q.QueryContext(ctx, `SELECT id, name, sell_by_date, quality FROM items ORDER BY position, id`)
	if err != nil {
		return entity.StockList{}, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []entity.Item
	for rows.Next() {
		var (
			id, name string
			sellBy   sql.NullString
			quality  int
		)
		if err := rows.Scan(&id, &name, &sellBy, &quality); err != nil {
			return entity.StockList{}, fmt.Errorf("scan item: %w", err)
		}
		itemID, err := entity.NewID[entity.Item](id)
		if err != nil {
			return entity.StockList{}, fmt.Errorf("item id %q: %w", id, err)
		}
		var sellByDate *time.Time
		if sellBy.Valid {
			d, err := time.Parse(dateLayout, sellBy.String)
			if err != nil {
				return entity.StockList{}, fmt.Errorf("parse sell_by_date %q: %w", sellBy.String, err)
			}
			sellByDate = &d
		}
		items = append(items, entity.NewItem(itemID, name, sellByDate, quality))
	}
	if err := rows.Err(); err != nil {
		return entity.StockList{}, fmt.Errorf("list items: %w", err)
	}
	return entity.NewStockList(lastModified, items), nil
}

func (r *itemsRepo) Save(ctx context.Context, stockList entity.StockList) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	for i, it := range stockList.Items {
		if err := r.insert(ctx, it, i); err != nil {
			return err
		}
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_list (id, last_modified) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET last_modified = excluded.last_modified`,
		formatInstant(stockList.LastModified),
	)
	if err != nil {
		return fmt.Errorf("upsert stock list: %w", err)
	}
	return nil
}

func (r *itemsRepo) InsertIfAbsent(ctx context.Context, lastModified time.Time, items []entity.Item) (int, error) {
	var next int
	if err := r.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM items`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	inserted := 0
	for _, it := range items {
		seen, err := r.q.ExecContext(ctx, `INSERT INTO seeded_ids (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, it.ID.String())
		if err != nil {
			return inserted, fmt.Errorf("record seeded id %s: %w", it.ID, err)
		}
		if n, _ := seen.RowsAffected(); n == 0 {
			continue
		}
		res, err := r.q.ExecContext(ctx, `
			INSERT INTO items (id, name, sell_by_date, quality, position)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`,
			it.ID.String(), it.Name, formatDate(it.SellByDate), it.Quality, next,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert item %s: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			inserted++
			next++
		}
	}
	if !lastModified.IsZero() {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO stock_list (id, last_modified) VALUES (1, ?)
			ON CONFLICT (id) DO NOTHING`,
			formatInstant(lastModified),
		)
		if err != nil {
			return inserted, fmt.Errorf("stamp stock list: %w", err)
		}
	}
	return inserted, nil
}

func (r *itemsRepo) insert(ctx context.Context, it entity.Item, position int) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO items (id, name, sell_by_date, quality, position) VALUES (?, ?, ?, ?, ?)`,
		it.ID.String(), it.Name, formatDate(it.SellByDate), it.Quality, position,
	)
	if err != nil {
		return fmt.Errorf("insert item %s: %w", it.ID, err)
	}
	return nil
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(dateLayout)
}

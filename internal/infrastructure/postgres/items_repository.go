package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema aplica el esquema de referencia (idempotente).
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

var _ repository.ItemsRepository = (*ItemsRepo)(nil)

// ItemsRepo implementación de ItemsRepository sobre PostgreSQL (usable con pool o tx).
type ItemsRepo struct {
	q Querier
}

// NewItemsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemsRepository(q Querier) *ItemsRepo {
	return &ItemsRepo{q: q}
}

// Load lee la marca de versión (bloqueando su fila dentro de una tx) y los items en orden.
func (r *ItemsRepo) Load(ctx context.Context) (entity.StockList, error) {
	var lastModified time.Time
	err := r.q.QueryRow(ctx, `SELECT last_modified FROM stock_list WHERE id = 1 FOR UPDATE`).Scan(&lastModified)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return entity.StockList{}, fmt.Errorf("get stock list: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, name, sell_by_date, quality
		FROM items ORDER BY position, id`)
	if err != nil {
		return entity.StockList{}, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []entity.Item
	for rows.Next() {
		var (
			id, name string
			sellBy   *time.Time
			quality  int
		)
		if err := rows.Scan(&id, &name, &sellBy, &quality); err != nil {
			return entity.StockList{}, fmt.Errorf("scan item: %w", err)
		}
		itemID, err := entity.NewID[entity.Item](id)
		if err != nil {
			return entity.StockList{}, fmt.Errorf("item id %q: %w", id, err)
		}
		items = append(items, entity.NewItem(itemID, name, sellBy, quality))
	}
	if err := rows.Err(); err != nil {
		return entity.StockList{}, fmt.Errorf("list items: %w", err)
	}
	return entity.NewStockList(lastModified, items), nil
}

// Save reemplaza los items y la marca de versión.
func (r *ItemsRepo) Save(ctx context.Context, stockList entity.StockList) error {
	ids := make([]string, len(stockList.Items))
	for i, it := range stockList.Items {
		ids[i] = it.ID.String()
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM items WHERE NOT (id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	for i, it := range stockList.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO items (id, name, sell_by_date, quality, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id)
			DO UPDATE SET name = EXCLUDED.name, sell_by_date = EXCLUDED.sell_by_date,
				quality = EXCLUDED.quality, position = EXCLUDED.position`,
			it.ID.String(), it.Name, it.SellByDate, it.Quality, i,
		)
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", it.ID, err)
		}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_list (id, last_modified) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_modified = EXCLUDED.last_modified`,
		stockList.LastModified,
	)
	if err != nil {
		return fmt.Errorf("upsert stock list: %w", err)
	}
	return nil
}

// InsertIfAbsent agrega al final los items de IDs nunca vistos; los existentes no se tocan.
// Cada ID queda registrado en seeded_ids en la misma transacción.
func (r *ItemsRepo) InsertIfAbsent(ctx context.Context, lastModified time.Time, items []entity.Item) (int, error) {
	var next int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM items`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	inserted := 0
	for _, it := range items {
		seen, err := r.q.Exec(ctx, `INSERT INTO seeded_ids (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, it.ID.String())
		if err != nil {
			return inserted, fmt.Errorf("record seeded id %s: %w", it.ID, err)
		}
		if seen.RowsAffected() == 0 {
			continue
		}
		tag, err := r.q.Exec(ctx, `
			INSERT INTO items (id, name, sell_by_date, quality, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			it.ID.String(), it.Name, it.SellByDate, it.Quality, next,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert item %s: %w", it.ID, err)
		}
		if tag.RowsAffected() == 1 {
			inserted++
			next++
		}
	}
	if !lastModified.IsZero() {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_list (id, last_modified) VALUES (1, $1)
			ON CONFLICT (id) DO NOTHING`,
			lastModified,
		)
		if err != nil {
			return inserted, fmt.Errorf("stamp stock list: %w", err)
		}
	}
	return inserted, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

const itemColumns = "id, type, name, code, duration, deleted, created_at, updated_at"

// ItemRepository manages persistence for service items.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository constructs an ItemRepository.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// List returns non-deleted items matching the filter.
func (r *ItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	base := "SELECT " + itemColumns + " FROM items WHERE deleted = FALSE"
	var conditions []string
	var args []interface{}

	if filter.ID != 0 {
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(args)+1))
		args = append(args, filter.ID)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, filter.Name)
	}
	if filter.Code != "" {
		conditions = append(conditions, fmt.Sprintf("code = $%d", len(args)+1))
		args = append(args, filter.Code)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	var items []models.Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// FindByID fetches an item by ID.
func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	const query = "SELECT " + itemColumns + " FROM items WHERE id = $1"
	var item models.Item
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindNonDeletedByID fetches an item that has not been soft-deleted.
func (r *ItemRepository) FindNonDeletedByID(ctx context.Context, id int64) (*models.Item, error) {
	const query = "SELECT " + itemColumns + " FROM items WHERE id = $1 AND deleted = FALSE"
	var item models.Item
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new item record.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO items (type, name, code, duration, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, item.Type, item.Name, item.Code, item.Duration, item.CreatedAt, item.UpdatedAt).Scan(&item.ID); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// Update modifies an existing item record.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE items SET type = :type, name = :name, code = :code, duration = :duration, deleted = :deleted, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

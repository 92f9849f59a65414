package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

const roleColumns = "id, name, code, deleted, created_at, updated_at"

// RoleRepository manages persistence for roles.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs a RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns non-deleted roles matching the filter.
func (r *RoleRepository) List(ctx context.Context, filter models.RoleFilter) ([]models.Role, error) {
	base := "SELECT " + roleColumns + " FROM roles WHERE deleted = FALSE"
	var conditions []string
	var args []interface{}

	if filter.ID != 0 {
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(args)+1))
		args = append(args, filter.ID)
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

	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// FindByID fetches a role by ID.
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	const query = "SELECT " + roleColumns + " FROM roles WHERE id = $1 AND deleted = FALSE"
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create inserts a new role record.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now

	const query = `INSERT INTO roles (name, code, deleted, created_at, updated_at)
		VALUES ($1, $2, FALSE, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, role.Name, role.Code, role.CreatedAt, role.UpdatedAt).Scan(&role.ID); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// Update modifies an existing role record.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	role.UpdatedAt = time.Now().UTC()
	const query = `UPDATE roles SET name = :name, code = :code, deleted = :deleted, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

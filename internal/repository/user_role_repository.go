package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

// UserRoleRepository manages persistence for user-role assignments.
type UserRoleRepository struct {
	db *sqlx.DB
}

// NewUserRoleRepository constructs a UserRoleRepository.
func NewUserRoleRepository(db *sqlx.DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

// List returns assignments matching the filter.
func (r *UserRoleRepository) List(ctx context.Context, filter models.UserRoleFilter) ([]models.UserRole, error) {
	base := "SELECT id, user_id, role_id, created_at, updated_at FROM user_roles WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UserID != 0 {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.RoleID != 0 {
		conditions = append(conditions, fmt.Sprintf("role_id = $%d", len(args)+1))
		args = append(args, filter.RoleID)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	var assignments []models.UserRole
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return assignments, nil
}

// FindByID fetches an assignment by ID.
func (r *UserRoleRepository) FindByID(ctx context.Context, id int64) (*models.UserRole, error) {
	const query = "SELECT id, user_id, role_id, created_at, updated_at FROM user_roles WHERE id = $1"
	var assignment models.UserRole
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByUserAndRole fetches an assignment for the exact user/role pair.
func (r *UserRoleRepository) FindByUserAndRole(ctx context.Context, userID, roleID int64) (*models.UserRole, error) {
	const query = "SELECT id, user_id, role_id, created_at, updated_at FROM user_roles WHERE user_id = $1 AND role_id = $2"
	var assignment models.UserRole
	if err := r.db.GetContext(ctx, &assignment, query, userID, roleID); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts a new assignment.
func (r *UserRoleRepository) Create(ctx context.Context, assignment *models.UserRole) error {
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO user_roles (user_id, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, assignment.UserID, assignment.RoleID, assignment.CreatedAt, assignment.UpdatedAt).Scan(&assignment.ID); err != nil {
		return fmt.Errorf("create user role: %w", err)
	}
	return nil
}

// Update modifies an existing assignment.
func (r *UserRoleRepository) Update(ctx context.Context, assignment *models.UserRole) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE user_roles SET user_id = :user_id, role_id = :role_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

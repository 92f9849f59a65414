package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

const memberColumns = "id, name, code, email, birthday, mobile, address, created_user_id, is_active, deleted, created_at, updated_at"

// MemberRepository manages persistence for patients.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository constructs a MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// List returns members matching the filter, ordered by id.
func (r *MemberRepository) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, error) {
	base := "SELECT " + memberColumns + " FROM members WHERE 1=1"
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
	if filter.Mobile != "" {
		conditions = append(conditions, fmt.Sprintf("mobile = $%d", len(args)+1))
		args = append(args, filter.Mobile)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	var members []models.Member
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// FindByID fetches a member by ID.
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*models.Member, error) {
	const query = "SELECT " + memberColumns + " FROM members WHERE id = $1"
	var member models.Member
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}
	return &member, nil
}

// FindActiveByID fetches a member that is still active.
func (r *MemberRepository) FindActiveByID(ctx context.Context, id int64) (*models.Member, error) {
	const query = "SELECT " + memberColumns + " FROM members WHERE id = $1 AND is_active = TRUE"
	var member models.Member
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsByMobile checks whether a member already registered the mobile number.
func (r *MemberRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	const query = "SELECT 1 FROM members WHERE mobile = $1 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, mobile); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check member mobile: %w", err)
	}
	return true, nil
}

// CreateWithCode allocates the next sequential member code and inserts the
// member inside one transaction. The locking read keeps two concurrent
// registrations from drawing the same code.
func (r *MemberRepository) CreateWithCode(ctx context.Context, member *models.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin member tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var lastCode string
	err = tx.GetContext(ctx, &lastCode,
		`SELECT code FROM members WHERE code LIKE 'E%' ORDER BY code DESC LIMIT 1 FOR UPDATE`)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("lock last member code: %w", err)
	}

	next := 1
	if lastCode != "" {
		current, convErr := strconv.Atoi(lastCode[1:])
		if convErr != nil {
			return fmt.Errorf("parse member code %q: %w", lastCode, convErr)
		}
		next = current + 1
	}
	member.Code = fmt.Sprintf("E%08d", next)

	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `INSERT INTO members (name, code, email, birthday, mobile, address, created_user_id, is_active, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query,
		member.Name, member.Code, member.Email, member.Birthday, member.Mobile, member.Address,
		member.CreatedUserID, member.IsActive, member.CreatedAt, member.UpdatedAt,
	).Scan(&member.ID); err != nil {
		return fmt.Errorf("create member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit member tx: %w", err)
	}
	return nil
}

// Update modifies an existing member record.
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE members SET name = :name, email = :email, birthday = :birthday, mobile = :mobile, address = :address, is_active = :is_active, deleted = :deleted, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

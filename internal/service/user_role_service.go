package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type userRoleRepository interface {
	List(ctx context.Context, filter models.UserRoleFilter) ([]models.UserRole, error)
	FindByID(ctx context.Context, id int64) (*models.UserRole, error)
	FindByUserAndRole(ctx context.Context, userID, roleID int64) (*models.UserRole, error)
	Create(ctx context.Context, assignment *models.UserRole) error
	Update(ctx context.Context, assignment *models.UserRole) error
}

type userRoleUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type userRoleRoleReader interface {
	FindByID(ctx context.Context, id int64) (*models.Role, error)
}

// UserRoleService manages role assignments for clinic users.
type UserRoleService struct {
	repo      userRoleRepository
	users     userRoleUserReader
	roles     userRoleRoleReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserRoleService constructs a UserRoleService.
func NewUserRoleService(repo userRoleRepository, users userRoleUserReader, roles userRoleRoleReader, validate *validator.Validate, logger *zap.Logger) *UserRoleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserRoleService{repo: repo, users: users, roles: roles, validator: validate, logger: logger}
}

// List returns assignments matching the filter.
func (s *UserRoleService) List(ctx context.Context, filter models.UserRoleFilter) ([]models.UserRole, error) {
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user roles")
	}
	return assignments, nil
}

// Create assigns a role to a user, rejecting duplicates and references to
// missing users or roles.
func (s *UserRoleService) Create(ctx context.Context, req dto.CreateUserRoleRequest) (*models.UserRole, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user role payload")
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify user")
	}
	if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify role")
	}

	if _, err := s.repo.FindByUserAndRole(ctx, req.UserID, req.RoleID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user already has this role")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignment")
	}

	assignment := &models.UserRole{UserID: req.UserID, RoleID: req.RoleID}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user role")
	}
	return assignment, nil
}

// Update moves an assignment to a different user or role.
func (s *UserRoleService) Update(ctx context.Context, id int64, req dto.UpdateUserRoleRequest) (*models.UserRole, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user role payload")
	}

	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user role not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get user role")
	}

	if req.UserID != nil {
		assignment.UserID = *req.UserID
	}
	if req.RoleID != nil {
		assignment.RoleID = *req.RoleID
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user role")
	}
	return assignment, nil
}

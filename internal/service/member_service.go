package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type memberRepository interface {
	List(ctx context.Context, filter models.MemberFilter) ([]models.Member, error)
	FindByID(ctx context.Context, id int64) (*models.Member, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
	CreateWithCode(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
}

type memberUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// MemberService orchestrates patient registration and updates. Member
// codes are allocated sequentially on create and mobile numbers must be
// unique.
type MemberService struct {
	repo      memberRepository
	users     memberUserReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMemberService constructs a MemberService.
func NewMemberService(repo memberRepository, users memberUserReader, validate *validator.Validate, logger *zap.Logger) *MemberService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns members matching the filter.
func (s *MemberService) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, error) {
	members, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	return members, nil
}

// Get fetches one member by ID.
func (s *MemberService) Get(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get member")
	}
	return member, nil
}

// Create registers a new patient. The code is allocated server-side and
// duplicate mobile numbers are rejected.
func (s *MemberService) Create(ctx context.Context, req dto.CreateMemberRequest) (*models.Member, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}

	if _, err := s.users.FindByID(ctx, req.CreatedUserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify creating user")
	}

	if req.Mobile != nil && *req.Mobile != "" {
		exists, err := s.repo.ExistsByMobile(ctx, *req.Mobile)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mobile number")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Mobile number already exists")
		}
	}

	member := &models.Member{
		Name:          req.Name,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Address:       req.Address,
		CreatedUserID: req.CreatedUserID,
		IsActive:      true,
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if req.Birthday != nil && *req.Birthday != "" {
		birthday, err := time.ParseInLocation("2006-01-02", *req.Birthday, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birthday")
		}
		member.Birthday = &birthday
	}

	if err := s.repo.CreateWithCode(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create member")
	}

	s.logger.Info("member created", zap.Int64("id", member.ID), zap.String("code", member.Code))
	return member, nil
}

// Update applies partial changes to an existing member. The code is
// immutable after registration.
func (s *MemberService) Update(ctx context.Context, id int64, req dto.UpdateMemberRequest) (*models.Member, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get member")
	}

	if req.Mobile != nil && *req.Mobile != "" && (member.Mobile == nil || *member.Mobile != *req.Mobile) {
		exists, err := s.repo.ExistsByMobile(ctx, *req.Mobile)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mobile number")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Mobile number already exists")
		}
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Mobile != nil {
		member.Mobile = req.Mobile
	}
	if req.Address != nil {
		member.Address = req.Address
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if req.Deleted != nil {
		member.Deleted = *req.Deleted
	}
	if req.Birthday != nil && *req.Birthday != "" {
		birthday, err := time.ParseInLocation("2006-01-02", *req.Birthday, time.UTC)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birthday")
		}
		member.Birthday = &birthday
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update member")
	}
	return member, nil
}

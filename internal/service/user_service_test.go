package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type userRepoStub struct {
	users  []models.User
	nextID int64
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return s.users, nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, *user)
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, validator.New(), nil)

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Name:     "Dr. Chen",
		Code:     "D001",
		Password: "s3cret-pass",
		Email:    "chen@example.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))
	assert.True(t, user.IsActive)
}

func TestUserServiceCreateRejectsShortPassword(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, validator.New(), nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Name:     "Dr. Chen",
		Code:     "D001",
		Password: "short",
		Email:    "chen@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateNotFound(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, validator.New(), nil)

	name := "Someone"
	_, err := svc.Update(context.Background(), 42, dto.UpdateUserRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

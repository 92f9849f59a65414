package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type memberRepoStub struct {
	members []models.Member
	mobiles map[string]bool
	nextID  int64
}

func (s *memberRepoStub) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, error) {
	return s.members, nil
}

func (s *memberRepoStub) FindByID(ctx context.Context, id int64) (*models.Member, error) {
	for i := range s.members {
		if s.members[i].ID == id {
			member := s.members[i]
			return &member, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memberRepoStub) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	return s.mobiles[mobile], nil
}

func (s *memberRepoStub) CreateWithCode(ctx context.Context, member *models.Member) error {
	s.nextID++
	member.ID = s.nextID
	member.Code = fmt.Sprintf("E%08d", s.nextID)
	s.members = append(s.members, *member)
	return nil
}

func (s *memberRepoStub) Update(ctx context.Context, member *models.Member) error {
	for i := range s.members {
		if s.members[i].ID == member.ID {
			s.members[i] = *member
			return nil
		}
	}
	return sql.ErrNoRows
}

type memberUserStub struct{}

func (memberUserStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func TestMemberServiceCreateAllocatesCode(t *testing.T) {
	repo := &memberRepoStub{mobiles: map[string]bool{}}
	svc := NewMemberService(repo, memberUserStub{}, validator.New(), nil)

	mobile := "0912345678"
	member, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		Name:          "Alice",
		Email:         "alice@example.com",
		Mobile:        &mobile,
		CreatedUserID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "E00000001", member.Code)
	assert.True(t, member.IsActive)
}

func TestMemberServiceCreateDuplicateMobile(t *testing.T) {
	repo := &memberRepoStub{mobiles: map[string]bool{"0912345678": true}}
	svc := NewMemberService(repo, memberUserStub{}, validator.New(), nil)

	mobile := "0912345678"
	_, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		Name:          "Alice",
		Email:         "alice@example.com",
		Mobile:        &mobile,
		CreatedUserID: 1,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Mobile number already exists", appErr.Message)
}

func TestMemberServiceCreateParsesBirthday(t *testing.T) {
	repo := &memberRepoStub{mobiles: map[string]bool{}}
	svc := NewMemberService(repo, memberUserStub{}, validator.New(), nil)

	birthday := "1990-04-15"
	member, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		Name:          "Bob",
		Email:         "bob@example.com",
		Birthday:      &birthday,
		CreatedUserID: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, member.Birthday)
	assert.Equal(t, "1990-04-15", member.Birthday.Format("2006-01-02"))
}

func TestMemberServiceUpdateKeepsCode(t *testing.T) {
	repo := &memberRepoStub{
		members: []models.Member{{ID: 1, Name: "Alice", Code: "E00000001", Email: "alice@example.com", IsActive: true}},
		mobiles: map[string]bool{},
	}
	svc := NewMemberService(repo, memberUserStub{}, validator.New(), nil)

	name := "Alice Wu"
	member, err := svc.Update(context.Background(), 1, dto.UpdateMemberRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Wu", member.Name)
	assert.Equal(t, "E00000001", member.Code)
}

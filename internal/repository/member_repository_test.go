package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siaochanwu/appointment-api/internal/models"
)

func TestMemberRepositoryCreateWithCodeAllocatesNextCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT code FROM members WHERE code LIKE 'E%' ORDER BY code DESC LIMIT 1 FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("E00000007"))
	mock.ExpectQuery("INSERT INTO members").
		WithArgs("Alice", "E00000008", "alice@example.com", nil, sqlmock.AnyArg(), nil, int64(1), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	mobile := "0912345678"
	member := &models.Member{Name: "Alice", Email: "alice@example.com", Mobile: &mobile, CreatedUserID: 1, IsActive: true}
	err := repo.CreateWithCode(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, "E00000008", member.Code)
	assert.Equal(t, int64(3), member.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryCreateWithCodeFirstMember(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT code FROM members WHERE code LIKE 'E%' ORDER BY code DESC LIMIT 1 FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))
	mock.ExpectQuery("INSERT INTO members").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	member := &models.Member{Name: "Bob", Email: "bob@example.com", CreatedUserID: 1, IsActive: true}
	err := repo.CreateWithCode(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, "E00000001", member.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryExistsByMobile(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectQuery("SELECT 1 FROM members WHERE mobile = \\$1 LIMIT 1").
		WithArgs("0912345678").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByMobile(context.Background(), "0912345678")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM members WHERE mobile = \\$1 LIMIT 1").
		WithArgs("0987654321").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByMobile(context.Background(), "0987654321")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

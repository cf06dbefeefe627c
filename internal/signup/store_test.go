package signup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, zerolog.Nop()), mock
}

func TestFindList(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT listId FROM mailingLists").
		WithArgs("weekly").
		WillReturnRows(sqlmock.NewRows([]string{"listId"}).AddRow("weekly"))

	list, err := store.FindList(context.Background(), "weekly")
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, "weekly", list.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindListAbsent(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT listId FROM mailingLists").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"listId"}))

	list, err := store.FindList(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindListMasksEngineError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT listId FROM mailingLists").
		WithArgs("weekly").
		WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := store.FindList(context.Background(), "weekly")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.NotContains(t, err.Error(), "dial tcp")
}

func TestFindSignup(t *testing.T) {
	store, mock := newTestStore(t)

	id := uuid.New()
	created := time.Now()
	mock.ExpectQuery("SELECT id, listId, email, createdAt FROM mailingListSignups").
		WithArgs("weekly", "ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listId", "email", "createdAt"}).
			AddRow(id.String(), "weekly", "ann@example.com", created))

	su, err := store.FindSignup(context.Background(), "weekly", "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, su)
	assert.Equal(t, id, su.ID)
	assert.Equal(t, "weekly", su.ListID)
	assert.Equal(t, "ann@example.com", su.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSignupAbsent(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT id, listId, email, createdAt FROM mailingListSignups").
		WithArgs("weekly", "ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listId", "email", "createdAt"}))

	su, err := store.FindSignup(context.Background(), "weekly", "ann@example.com")
	require.NoError(t, err)
	assert.Nil(t, su)
}

func TestInsertSignup(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO mailingListSignups").
		WithArgs(sqlmock.AnyArg(), "weekly", "ann@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertSignup(context.Background(), "weekly", "ann@example.com")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSignupDuplicate(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO mailingListSignups").
		WithArgs(sqlmock.AnyArg(), "weekly", "ann@example.com", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := store.InsertSignup(context.Background(), "weekly", "ann@example.com")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)
}

func TestInsertSignupMasksEngineError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO mailingListSignups").
		WithArgs(sqlmock.AnyArg(), "weekly", "ann@example.com", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'contact.mailingListSignups' doesn't exist"})

	err := store.InsertSignup(context.Background(), "weekly", "ann@example.com")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.NotContains(t, err.Error(), "1146")
}

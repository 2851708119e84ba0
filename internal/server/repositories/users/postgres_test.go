package users

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*data\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+created_at\s*$`
	selectQuery = `(?s)^SELECT\s+data,\s*created_at\s+FROM\s+users\s+WHERE\s+data->>'email'\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+LIMIT\s+1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

// jsonArg matches the document argument and records it.
type jsonArg struct {
	got *[]byte
}

func (a jsonArg) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	if ok {
		*a.got = b
	}
	return ok
}

func alice() *models.User {
	return &models.User{
		ID:           "7f1d5d7e-3b2a-4c1e-9a55-0d1f3e6b7a01",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	var body []byte
	mock.ExpectQuery(insertQuery).
		WithArgs("7f1d5d7e-3b2a-4c1e-9a55-0d1f3e6b7a01", jsonArg{got: &body}).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), alice())
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, created, got.CreatedAt)

	assert.JSONEq(t, `{
		"id": "7f1d5d7e-3b2a-4c1e-9a55-0d1f3e6b7a01",
		"username": "alice",
		"email": "alice@example.com",
		"passwordHash": "$2a$10$hash"
	}`, string(body))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", Message: "duplicate key"}, want: common.ErrEmailTaken},
		{name: "connection refused", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: common.ErrStoreUnavailable},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: common.ErrStoreWriteFailed},
		{name: "generic", err: errors.New("db down"), want: common.ErrStoreWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(insertQuery).WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), alice())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "want %v, got %v", tt.want, err)
			assert.True(t, errors.Is(err, tt.err), "driver error must stay in the chain")
		})
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"u-1","username":"alice","email":"alice@example.com","passwordHash":"$2a$10$hash"}`)
	mock.ExpectQuery(selectQuery).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at"}).AddRow(body, created))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    created,
	}, got)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("alice@example.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStoreReadFailed))
	assert.Regexp(t, regexp.MustCompile(`db err`), err.Error())
}

func TestFindByEmail_Unavailable(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WillReturnError(&net.OpError{Op: "read", Err: errors.New("connection reset")})

	_, err := repo.FindByEmail(context.Background(), "alice@example.com")
	assert.True(t, errors.Is(err, common.ErrStoreUnavailable))
}

func TestFindByEmail_CorruptDocument(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at"}).AddRow([]byte(`{nope`), time.Now()))

	_, err := repo.FindByEmail(context.Background(), "alice@example.com")
	assert.True(t, errors.Is(err, common.ErrStoreReadFailed))
}

func TestUserModel_NeverSerializesHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at"}).
			AddRow([]byte(`{"id":"u-1","username":"a","email":"a@b.co","passwordHash":"$2a$10$secret"}`), time.Now()))

	u, err := repo.FindByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	require.Equal(t, "$2a$10$secret", u.PasswordHash)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.NotContains(t, string(out), "passwordHash")
}

// Package users stores user documents as JSONB rows in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/dbx"
	"github.com/dmitrijs2005/seniko/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// document is the persisted JSON body. Unlike models.User it carries the
// password hash.
type document struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user as a new document. The caller supplies the ID.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	body, err := json.Marshal(document{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	})
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "marshal document").
			Wrap(errors.Join(common.ErrStoreWriteFailed, err))
	}

	query :=
		`INSERT INTO users (id, data)
         VALUES ($1, $2)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query, user.ID, body).Scan(&user.CreatedAt)
	if err != nil {
		return nil, classifyWrite(err, user)
	}

	return user, nil
}

// FindByEmail returns the oldest document whose email equals email exactly,
// or common.ErrorNotFound.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT data, created_at FROM users
		 WHERE data->>'email' = $1
		 ORDER BY created_at
		 LIMIT 1
		 `

	var body []byte
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&body, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		kind := common.ErrStoreReadFailed
		if dbx.IsUnavailable(err) {
			kind = common.ErrStoreUnavailable
		}
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "select user by email").
			Wrap(errors.Join(kind, err))
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "unmarshal document").
			Wrap(errors.Join(common.ErrStoreReadFailed, err))
	}

	user.ID = doc.ID
	user.Username = doc.Username
	user.Email = doc.Email
	user.PasswordHash = doc.PasswordHash

	return user, nil
}

func classifyWrite(err error, user *models.User) error {
	var pgErr *pgconn.PgError
	kind := common.ErrStoreWriteFailed

	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		kind = common.ErrEmailTaken
	case dbx.IsUnavailable(err):
		kind = common.ErrStoreUnavailable
	}

	return oops.Code("USER_CREATE_FAILED").
		With("operation", "insert user").
		With("user_id", user.ID).
		Wrap(errors.Join(kind, err))
}

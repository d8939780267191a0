package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgebook/guestbook-server-go/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindNameByID reads only the name column, bypassing any cached copy.
	// Used by the onboarding gate which must not trust stale session data.
	FindNameByID(ctx context.Context, id string) (*string, error)
	UpdateName(ctx context.Context, id string, name string) (*model.User, error)
	// UpdateImage sets the avatar reference; a nil image clears it.
	UpdateImage(ctx context.Context, id string, image *string) (*model.User, error)
}

// userDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type userDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type userRepo struct {
	db userDB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindNameByID(ctx context.Context, id string) (*string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `
		SELECT name FROM users WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func (r *userRepo) UpdateName(ctx context.Context, id string, name string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		UPDATE users SET
			name = $2,
			updated_at = $3
		WHERE id = $1
		RETURNING *
	`, id, name, time.Now())
	return HandleNotFound(&user, err)
}

func (r *userRepo) UpdateImage(ctx context.Context, id string, image *string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		UPDATE users SET
			image = $2,
			updated_at = $3
		WHERE id = $1
		RETURNING *
	`, id, image, time.Now())
	return HandleNotFound(&user, err)
}

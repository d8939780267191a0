package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/edgebook/guestbook-server-go/internal/model"
)

type GuestbookRepository interface {
	FindRecent(ctx context.Context, limit, offset int) ([]model.GuestbookEntry, error)
	Create(ctx context.Context, params model.CreateGuestbookEntryParams) (*model.GuestbookEntry, error)
	CountAll(ctx context.Context) (int, error)
}

type guestbookDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type guestbookRepo struct {
	db guestbookDB
}

func NewGuestbookRepository(db *sqlx.DB) GuestbookRepository {
	return &guestbookRepo{db: db}
}

func (r *guestbookRepo) FindRecent(ctx context.Context, limit, offset int) ([]model.GuestbookEntry, error) {
	entries := []model.GuestbookEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM guestbook_entries
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *guestbookRepo) Create(ctx context.Context, params model.CreateGuestbookEntryParams) (*model.GuestbookEntry, error) {
	var entry model.GuestbookEntry
	err := r.db.GetContext(ctx, &entry, `
		INSERT INTO guestbook_entries (id, user_id, author_name, message, country)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ID, params.UserID, params.AuthorName, params.Message, params.Country)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *guestbookRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM guestbook_entries
	`)
	if err != nil {
		return 0, err
	}
	return count, nil
}

package model

import "time"

type GuestbookEntry struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Message    string    `db:"message" json:"message"`
	Country    *string   `db:"country" json:"country"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type CreateGuestbookEntryParams struct {
	ID         string
	UserID     string
	AuthorName string
	Message    string
	Country    *string
}

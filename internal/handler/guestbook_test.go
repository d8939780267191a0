package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgebook/guestbook-server-go/internal/middleware"
	"github.com/edgebook/guestbook-server-go/internal/model"
)

type fakeGuestbookRepo struct {
	entries   []model.GuestbookEntry
	createErr error
}

func (r *fakeGuestbookRepo) FindRecent(ctx context.Context, limit, offset int) ([]model.GuestbookEntry, error) {
	if offset >= len(r.entries) {
		return []model.GuestbookEntry{}, nil
	}
	end := offset + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}
	return r.entries[offset:end], nil
}

func (r *fakeGuestbookRepo) Create(ctx context.Context, params model.CreateGuestbookEntryParams) (*model.GuestbookEntry, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	entry := model.GuestbookEntry{
		ID:         params.ID,
		UserID:     params.UserID,
		AuthorName: params.AuthorName,
		Message:    params.Message,
		Country:    params.Country,
	}
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *fakeGuestbookRepo) CountAll(ctx context.Context) (int, error) {
	return len(r.entries), nil
}

func withUser(r *http.Request, user *model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, user)
	return r.WithContext(ctx)
}

func TestGuestbookHandlerList(t *testing.T) {
	t.Run("lists entries with total", func(t *testing.T) {
		repo := &fakeGuestbookRepo{entries: []model.GuestbookEntry{
			{ID: "e1", AuthorName: "Alice", Message: "hello"},
			{ID: "e2", AuthorName: "Bob", Message: "hi"},
		}}
		handler := NewGuestbookHandler(repo)

		rec := httptest.NewRecorder()
		handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Entries []model.GuestbookEntry `json:"entries"`
			Total   int                    `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Entries, 2)
		assert.Equal(t, 2, body.Total)
	})

	t.Run("respects pagination limits", func(t *testing.T) {
		repo := &fakeGuestbookRepo{entries: []model.GuestbookEntry{
			{ID: "e1"}, {ID: "e2"}, {ID: "e3"},
		}}
		handler := NewGuestbookHandler(repo)

		rec := httptest.NewRecorder()
		handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=2&offset=1", nil))

		var body struct {
			Entries []model.GuestbookEntry `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Entries, 2)
		assert.Equal(t, "e2", body.Entries[0].ID)
	})
}

func TestGuestbookHandlerCreate(t *testing.T) {
	user := &model.User{ID: "u1", Name: "Alice"}

	t.Run("requires authentication", func(t *testing.T) {
		handler := NewGuestbookHandler(&fakeGuestbookRepo{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hello"}`))
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("creates entry for authenticated user", func(t *testing.T) {
		repo := &fakeGuestbookRepo{}
		handler := NewGuestbookHandler(repo)

		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"  hello there  "}`)), user)
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, repo.entries, 1)
		assert.Equal(t, "hello there", repo.entries[0].Message)
		assert.Equal(t, "u1", repo.entries[0].UserID)
		assert.Equal(t, "Alice", repo.entries[0].AuthorName)
		assert.NotEmpty(t, repo.entries[0].ID)
		assert.Nil(t, repo.entries[0].Country)
	})

	t.Run("stores the optional country", func(t *testing.T) {
		repo := &fakeGuestbookRepo{}
		handler := NewGuestbookHandler(repo)

		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hello","country":"NZ"}`)), user)
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, repo.entries, 1)
		require.NotNil(t, repo.entries[0].Country)
		assert.Equal(t, "NZ", *repo.entries[0].Country)
	})

	t.Run("blank country is stored as null", func(t *testing.T) {
		repo := &fakeGuestbookRepo{}
		handler := NewGuestbookHandler(repo)

		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hello","country":"  "}`)), user)
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, repo.entries, 1)
		assert.Nil(t, repo.entries[0].Country)
	})

	t.Run("rejects empty message", func(t *testing.T) {
		handler := NewGuestbookHandler(&fakeGuestbookRepo{})

		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"   "}`)), user)
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects oversized message", func(t *testing.T) {
		handler := NewGuestbookHandler(&fakeGuestbookRepo{})

		long := strings.Repeat("a", maxMessageLength+1)
		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"`+long+`"}`)), user)
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		handler := NewGuestbookHandler(&fakeGuestbookRepo{createErr: errors.New("connection refused")})

		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hello"}`)), user)
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

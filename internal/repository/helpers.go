package repository

import (
	"database/sql"
	"errors"
)

// HandleNotFound converts sql.ErrNoRows into a (nil, nil) result. Find* and
// update-with-RETURNING operations use it so a missing user or entry is an
// expected outcome, not an error.
//
//	var user model.User
//	err := r.db.GetContext(ctx, &user, query, id)
//	return HandleNotFound(&user, err)
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

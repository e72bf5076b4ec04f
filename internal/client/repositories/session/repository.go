// Package session stores the CLI's current login (token and email) in the
// local SQLite database.
package session

import (
	"context"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyEmail = "email"
)

// Repository is a small key/value store. Get returns ("", false, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

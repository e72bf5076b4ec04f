// Package users contains the user store: a PostgreSQL implementation and an
// in-memory one for local runs and tests.
package users

import (
	"context"

	"github.com/dmitrijs2005/crtrstudio/internal/server/models"
)

// Repository persists users keyed by id with a unique email index.
//
// Lookups return common.ErrorNotFound when no row matches. Create and Update
// return common.ErrConstraintViolation when the email is already taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

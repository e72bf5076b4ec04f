// Package services contains application services for the CRTR Studio CLI.
// The authentication service keeps the current session in the local
// database and talks to the API through a client.Client.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/crtrstudio/internal/client/client"
	"github.com/dmitrijs2005/crtrstudio/internal/client/repositories/session"
	"github.com/dmitrijs2005/crtrstudio/internal/dbx"
)

// AuthService defines the session operations of the CLI.
//
// Contract:
//   - Register / Login: call the API and persist the returned session.
//   - Me: resolve the stored session; an expired one is dropped locally.
//   - Logout: drop the local session and notify the server.
//   - Projects: call the project listing endpoint with the session.
//   - CurrentEmail: the email of the stored session, if any.
//   - Ping: check server liveness.
//   - Close: release the local database.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, name *string) (*client.User, error)
	Login(ctx context.Context, email string, password []byte) (*client.User, error)
	Me(ctx context.Context) (*client.User, error)
	Logout(ctx context.Context) error
	Projects(ctx context.Context) (string, error)
	CurrentEmail(ctx context.Context) (string, bool, error)
	Ping(ctx context.Context) error
	Close() error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db}
}

func (a *authService) getSessionRepo() session.Repository {
	return session.NewSQLiteRepository(a.db)
}

func (a *authService) Register(ctx context.Context, email string, password []byte, name *string) (*client.User, error) {
	res, err := a.client.Register(ctx, client.RegisterRequest{Email: email, Password: string(password), Name: name})
	if err != nil {
		return nil, err
	}

	if err := a.saveSession(ctx, res); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &res.User, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*client.User, error) {
	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}

	if err := a.saveSession(ctx, res); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &res.User, nil
}

// saveSession stores token and email in a single transaction.
func (a *authService) saveSession(ctx context.Context, res *client.AuthResponse) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, session.KeyToken, res.Token); err != nil {
			return err
		}
		return repo.Set(ctx, session.KeyEmail, res.User.Email)
	})
}

func (a *authService) token(ctx context.Context) (string, error) {
	token, ok, err := a.getSessionRepo().Get(ctx, session.KeyToken)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", client.ErrNoSession
	}
	return token, nil
}

func (a *authService) Me(ctx context.Context) (*client.User, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	user, err := a.client.Me(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.getSessionRepo().Clear(ctx)
		}
		return nil, err
	}
	return user, nil
}

// Logout always clears the local session. The server call is advisory, so
// an unreachable server is not an error.
func (a *authService) Logout(ctx context.Context) error {
	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	if err := a.getSessionRepo().Clear(ctx); err != nil {
		return err
	}

	if err := a.client.Logout(ctx, token); err != nil && !errors.Is(err, client.ErrUnavailable) {
		return err
	}
	return nil
}

// Projects returns the server's answer for the project listing. While the
// endpoint is a placeholder its 501 message is returned as the result.
func (a *authService) Projects(ctx context.Context) (string, error) {
	token, err := a.token(ctx)
	if err != nil {
		return "", err
	}

	err = a.client.ListProjects(ctx, token)
	if err == nil {
		return "", nil
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotImplemented {
		return apiErr.Message, nil
	}
	return "", err
}

func (a *authService) CurrentEmail(ctx context.Context) (string, bool, error) {
	if _, err := a.token(ctx); err != nil {
		if errors.Is(err, client.ErrNoSession) {
			return "", false, nil
		}
		return "", false, err
	}
	return a.getSessionRepo().Get(ctx, session.KeyEmail)
}

// Ping checks that the API answers its health endpoint.
func (a *authService) Ping(ctx context.Context) error {
	_, err := a.client.Health(ctx)
	return err
}

func (a *authService) Close() error {
	return a.db.Close()
}

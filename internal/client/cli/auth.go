package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/crtrstudio/internal/client/client"
	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/dmitrijs2005/crtrstudio/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("password is too weak")
)

const memberSinceLayout = "2006-01-02"

func (a *App) writer() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

// reportError prints a user-facing line for err.
func (a *App) reportError(err error) {
	w := a.writer()

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNoSession):
		fmt.Fprintln(w, "You are not logged in")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(w, "Server is unavailable, try again later")
	case errors.As(err, &apiErr):
		fmt.Fprintln(w, "Error:", apiErr.Message)
	default:
		fmt.Fprintln(w, "Error:", err.Error())
	}
}

// Register prompts for email, an optional display name and the password
// twice. The password is checked locally against the strength rules before
// the account is created; the server repeats the same checks.
func (a *App) Register(ctx context.Context) error {
	w := a.writer()

	email, err := getSimpleText(a.reader, "Enter email", w)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter name (optional, press Enter to skip)", w)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		fmt.Fprintln(w, "Passwords do not match")
		return ErrPasswordMismatch
	}

	if v := cryptox.ValidatePasswordStrength(string(password)); !v.Valid {
		for _, msg := range v.Errors {
			fmt.Fprintln(w, "-", msg)
		}
		return ErrWeakPassword
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}

	user, err := a.authService.Register(ctx, email, password, namePtr)
	if err != nil {
		a.reportError(err)
		return err
	}

	a.setEmail(user.Email)
	fmt.Fprintf(w, "Welcome, %s!\n", displayName(user))
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context) error {
	w := a.writer()

	email, err := getSimpleText(a.reader, "Enter email", w)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.reportError(err)
		return err
	}

	a.setEmail(user.Email)
	fmt.Fprintf(w, "Logged in as %s\n", user.Email)
	return nil
}

// Me prints the profile of the signed-in user. A rejected token ends the
// local session.
func (a *App) Me(ctx context.Context) error {
	w := a.writer()

	user, err := a.authService.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.setEmail("")
			fmt.Fprintln(w, "Session expired, please log in again")
			return err
		}
		a.reportError(err)
		return err
	}

	name := "-"
	if user.Name != nil && *user.Name != "" {
		name = *user.Name
	}

	fmt.Fprintf(w, "Email:        %s\n", user.Email)
	fmt.Fprintf(w, "Name:         %s\n", name)
	fmt.Fprintf(w, "Member since: %s\n", user.CreatedAt.Format(memberSinceLayout))
	return nil
}

// Logout drops the local session and notifies the server.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.reportError(err)
		return err
	}

	a.setEmail("")
	fmt.Fprintln(a.writer(), "Logged out successfully")
	return nil
}

// Projects queries the project listing for the signed-in user.
func (a *App) Projects(ctx context.Context) error {
	msg, err := a.authService.Projects(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}

	if msg == "" {
		msg = "No projects yet"
	}
	fmt.Fprintln(a.writer(), msg)
	return nil
}

func displayName(u *client.User) string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

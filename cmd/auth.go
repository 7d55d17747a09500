package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cine/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a bearer token and installs the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if r.store == nil {
		return fmt.Errorf("%w: session storage unavailable, run 'cine setup database'", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("signing in as %s", email)

	token, err := r.account.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := r.store.Login(ctx, token.AccessToken); err != nil {
		return fmt.Errorf("failed to install session: %w", err)
	}

	session := r.store.Current()
	if session.User != nil {
		return r.writePlain("✓ Signed in as %s (%s)\n", session.User.DisplayName, session.User.Email)
	}
	return r.writePlain("✓ Signed in\n")
}

// AuthRegister creates a new account, then signs in with the same credentials.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")

	r.logger.Infof("registering account for %s", email)

	user, err := r.account.Register(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.writePlain("✓ Account created: %s (%s)\n", user.DisplayName, user.Email)

	if r.store == nil {
		r.writePlain("Run 'cine auth login' after 'cine setup database' to sign in.\n")
		return nil
	}

	token, err := r.account.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	if err := r.store.Login(ctx, token.AccessToken); err != nil {
		return fmt.Errorf("account created but session install failed: %w", err)
	}

	return r.writePlain("✓ Signed in as %s\n", user.DisplayName)
}

// AuthLogout clears the stored session. Always succeeds.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return r.writePlain("Not signed in\n")
	}

	r.restore(ctx)
	if !r.store.Current().Authenticated() {
		return r.writePlain("Not signed in\n")
	}

	r.store.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus checks backend health and reports the local session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking backend health")

	if err := r.prober.Health(ctx); err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	r.writePlain("✓ Service is healthy\n")

	if r.store == nil {
		r.writePlain("Authentication: ✗ Not signed in\n")
		return nil
	}

	r.restore(ctx)
	session := r.store.Current()
	if session.Authenticated() && session.User != nil {
		r.writePlain("Authentication: ✓ Signed in as %s\n", session.User.Email)
	} else {
		r.writePlain("Authentication: ✗ Not signed in\n")
	}
	return nil
}

// AuthWhoami shows the profile behind the stored session.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: run 'cine auth login'", shared.ErrNotAuthenticated)
	}
	r.restore(ctx)

	session := r.store.Current()
	if !session.Authenticated() || session.User == nil {
		return fmt.Errorf("%w: run 'cine auth login'", shared.ErrNotAuthenticated)
	}

	user := session.User
	r.writePlainHeader(user.DisplayName)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("ID: %s\n", user.ID)
	if len(user.Preferences.FavoriteCategories) > 0 {
		r.writePlain("Favorite categories: %v\n", user.Preferences.FavoriteCategories)
	}
	return nil
}

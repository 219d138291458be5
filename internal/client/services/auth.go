package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/client/validator"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/logging"
)

// AuthService signs users in and out.
//
// Contract:
//   - Login: authenticate and persist the tokens and account; stale seller
//     data from a previous account is dropped.
//   - Register: create a new account on the backend.
//   - Logout: invalidate the refresh token server-side, then clear every
//     local key whatever the outcome of that call.
//   - Token: the cached access token, or common.ErrAuthMissing.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Account, error)
	Register(ctx context.Context, in models.RegisterInput) error
	Logout(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

type authService struct {
	client  client.Client
	session session.Repository
	roles   RoleService
	log     logging.Logger
}

// NewAuthService constructs an AuthService. roles is notified on sign-in and
// sign-out.
func NewAuthService(c client.Client, sess session.Repository, roles RoleService, log logging.Logger) AuthService {
	return &authService{client: c, session: sess, roles: roles, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	const action = "sign in"

	account, err := a.login(ctx, email, password)
	if err != nil {
		return nil, fail(ctx, a.log, action, err)
	}
	a.roles.SignedIn(ctx)
	a.log.Info(ctx, "signed in", "user_id", account.ID)
	return account, nil
}

func (a *authService) login(ctx context.Context, email, password string) (*models.Account, error) {
	if err := validator.ValidateVar("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := validator.ValidateVar("password", password, "required"); err != nil {
		return nil, err
	}

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if resp.NumError != 1 || resp.Token == "" {
		return nil, common.ErrInvalidCredentials
	}

	account := resp.User
	account.Token = resp.Token
	account.RefreshToken = resp.RefreshToken

	// A new login may belong to a different account.
	if err := a.session.Clear(ctx); err != nil {
		return nil, err
	}
	if err := a.session.SetTokens(ctx, resp.Token, resp.RefreshToken); err != nil {
		return nil, err
	}
	if err := a.session.SetAccount(ctx, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (a *authService) Register(ctx context.Context, in models.RegisterInput) error {
	const action = "create account"

	if err := validator.ValidateStruct(in); err != nil {
		return fail(ctx, a.log, action, err)
	}
	if err := a.client.Register(ctx, in); err != nil {
		return fail(ctx, a.log, action, err)
	}
	return nil
}

// Logout never leaves local session state behind. The returned error only
// reports a failed server-side invalidation or a failed local wipe.
func (a *authService) Logout(ctx context.Context) error {
	const action = "sign out"

	var remoteErr error
	access, refresh, err := a.session.Tokens(ctx)
	if err != nil {
		remoteErr = err
	} else if refresh != "" {
		remoteErr = a.client.Logout(client.WithAccessToken(ctx, access), refresh)
	}

	clearErr := a.session.Clear(ctx)
	a.roles.SignedOut(ctx)

	if err := errors.Join(remoteErr, clearErr); err != nil {
		return fail(ctx, a.log, action, err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) Token(ctx context.Context) (string, error) {
	authCtx, err := authorize(ctx, a.session)
	if err != nil {
		return "", err
	}
	return client.AccessTokenFrom(authCtx), nil
}

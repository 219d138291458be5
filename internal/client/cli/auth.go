package cli

import (
	"context"
	"strings"

	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. The
// password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullname, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	err = a.auth.Register(ctx, models.RegisterInput{
		Email:           email,
		Fullname:        fullname,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		return a.alert(err)
	}

	a.println("Account created. You can log in now.")
	return nil
}

// Login prompts for credentials and signs in. The session starts in buyer mode.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	account, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return a.alert(err)
	}

	a.printf("Welcome, %s!\n", displayName(account))
	return nil
}

// Logout always ends the local session; a failed server call is reported
// but does not keep the user signed in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.alert(err)
	}
	a.println("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	account, err := a.session.Account(ctx)
	if err != nil {
		return a.alert(err)
	}
	if account == nil || !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}

	a.printf("%s <%s>, %s mode\n", displayName(account), account.Email, a.role())
	if seller, _ := a.session.Seller(ctx); seller != nil {
		a.printf("Store: %s (%s)\n", seller.StoreName, seller.ID)
	}
	if keys, err := a.session.Keys(ctx); err == nil {
		a.printf("Cached: %s\n", strings.Join(keys, ", "))
	}
	return nil
}

func displayName(a *models.Account) string {
	if a.Fullname != "" {
		return a.Fullname
	}
	return a.Email
}

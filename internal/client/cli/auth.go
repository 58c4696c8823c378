package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/friendbook/internal/client/client"
	"github.com/dmitrijs2005/friendbook/internal/common"
)

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// Register asks for the account details and creates the account. It does not
// log in.
func (a *App) Register(ctx context.Context) error {
	var r client.Registration
	var err error

	if r.FirstName, err = a.prompt("First name"); err != nil {
		return err
	}
	if r.LastName, err = a.prompt("Last name"); err != nil {
		return err
	}
	if r.Email, err = a.prompt("Email"); err != nil {
		return err
	}
	if r.SecretCode, err = a.prompt("Secret code (used to recover the password)"); err != nil {
		return err
	}
	if r.Password, err = getPassword("Password", a.out); err != nil {
		return err
	}
	defer common.WipeByteArray(r.Password)

	u, err := a.api.Register(ctx, r)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d). You can login now.\n", u.Email, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.user = u
	fmt.Fprintf(a.out, "Hello, %s %s!\n", u.FirstName, u.LastName)
	return nil
}

// Recover sets a new password after proving knowledge of the secret code.
func (a *App) Recover(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	code, err := a.prompt("Secret code")
	if err != nil {
		return err
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.api.RecoverPassword(ctx, email, code, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Passwd(ctx context.Context) error {
	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.api.ChangePassword(ctx, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

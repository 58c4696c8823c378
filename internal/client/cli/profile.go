package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/friendbook/internal/client/client"
)

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	a.user = u

	fmt.Fprintf(a.out, "id:          %d\n", u.ID)
	fmt.Fprintf(a.out, "name:        %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(a.out, "email:       %s\n", u.Email)
	fmt.Fprintf(a.out, "role:        %s\n", u.Role)
	fmt.Fprintf(a.out, "secret code: %s\n", u.SecretCode)
	return nil
}

// Profile edits the profile fields; an empty answer keeps the current value.
func (a *App) Profile(ctx context.Context) error {
	current, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}

	ask := func(label, value string) (string, error) {
		s, err := a.prompt(fmt.Sprintf("%s [%s]", label, value))
		if err != nil || s == "" {
			return value, err
		}
		return s, nil
	}

	first, err := ask("First name", current.FirstName)
	if err != nil {
		return err
	}
	last, err := ask("Last name", current.LastName)
	if err != nil {
		return err
	}
	code, err := ask("Secret code", current.SecretCode)
	if err != nil {
		return err
	}

	u, err := a.api.UpdateProfile(ctx, first, last, code)
	if err != nil {
		return err
	}
	a.user = u
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// Suggest lists the users that are not friends of the logged-in user.
func (a *App) Suggest(ctx context.Context) error {
	users, err := a.api.NonFriends(ctx)
	if err != nil {
		return err
	}

	others := make([]client.User, 0, len(users))
	for _, u := range users {
		if a.user == nil || u.ID != a.user.ID {
			others = append(others, u)
		}
	}
	if len(others) == 0 {
		fmt.Fprintln(a.out, "No suggestions")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, u := range others {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\n", u.ID, u.FirstName, u.LastName, u.Email)
	}
	return tw.Flush()
}

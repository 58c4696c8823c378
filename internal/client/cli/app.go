package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/friendbook/internal/client/client"
	"github.com/dmitrijs2005/friendbook/internal/client/config"
)

type App struct {
	config *config.Config
	api    client.Client
	reader *bufio.Reader
	out    io.Writer
	user   *client.User
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewFriendbookClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.api.Close()

	fmt.Fprintln(a.out, "Welcome to friendbook CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Server %s is not reachable: %v\n", a.config.ServerEndpointAddr, err)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) status() string {
	if a.user == nil {
		return ""
	}
	return "(" + a.user.Email + ")"
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	err      error
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Recover(context.Context) error { return f.record("recover") }
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami") }
func (f *fakeExec) Profile(context.Context) error { return f.record("profile") }
func (f *fakeExec) Passwd(context.Context) error { return f.record("passwd") }
func (f *fakeExec) Suggest(context.Context) error { return f.record("suggest") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func runLines(exec *fakeExec, lines ...string) string {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "" }, in, &out)
	return out.String()
}

func TestRunREPL_Dispatch(t *testing.T) {
	exec := &fakeExec{}

	out := runLines(exec,
		"help",
		"whoami",
		"register",
		"recover",
		"login",
		"help",
		"",
		"whoami",
		"profile",
		"passwd",
		"suggest",
		"logout",
		"foobar",
		"exit",
		"login",
	)

	assert.Equal(t, []string{"register", "recover", "login", "whoami", "profile", "passwd", "suggest", "logout"}, exec.calls)
	assert.Contains(t, out, "Available commands: register, login, recover, exit")
	assert.Contains(t, out, "Available commands: whoami, profile, passwd, suggest, logout, exit")
	assert.Contains(t, out, "Error: please login first")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_PrintsCommandErrorsAndStopsOnEOF(t *testing.T) {
	exec := &fakeExec{err: errors.New("server unavailable")}

	out := runLines(exec, "register")

	assert.Equal(t, []string{"register"}, exec.calls)
	assert.Contains(t, out, "Error: server unavailable")
	assert.NotContains(t, out, "Bye!")
}

package cli

import (
	"bufio"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/kaanoon/internal/client/session"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn  bool
	resolving bool

	calls []string
	code  string
	navs  []session.NavigationIntent
}

func (f *fakeExec) isLoggedIn() bool  { return f.loggedIn }
func (f *fakeExec) isResolving() bool { return f.resolving }
func (f *fakeExec) Navigate(_ context.Context, nav session.NavigationIntent) {
	f.navs = append(f.navs, nav)
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) GoogleLogin(context.Context) error {
	f.calls = append(f.calls, "google")
	return nil
}
func (f *fakeExec) Signup(context.Context) error { f.calls = append(f.calls, "signup"); return nil }
func (f *fakeExec) Verify(_ context.Context, code string) error {
	f.calls = append(f.calls, "verify")
	f.code = code
	return nil
}
func (f *fakeExec) Resend(context.Context) error  { f.calls = append(f.calls, "resend"); return nil }
func (f *fakeExec) Status(context.Context) error  { f.calls = append(f.calls, "status"); return nil }
func (f *fakeExec) Back(context.Context) error    { f.calls = append(f.calls, "back"); return nil }
func (f *fakeExec) Profile(context.Context) error { f.calls = append(f.calls, "profile"); return nil }
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

func (o *output) text() string {
	return strings.Join(o.all(), "\n")
}

func captureOutput(t *testing.T) *output {
	t.Helper()
	out := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(toString(v))
		}
		out.mu.Lock()
		out.lines = append(out.lines, strings.Join(parts, " "))
		out.mu.Unlock()
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return out
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_SignupAndVerifyFlow(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "status" },
		input("help", "signup", "verify 123 456", "status", "resend", "back", "google", "foobar", "exit"))

	assert.Equal(t, []string{"signup", "verify", "status", "resend", "back", "google"}, exec.calls)
	assert.Equal(t, "123456", exec.code)
}

func TestRunREPL_PublicCommandsWhileSignedInShowDashboard(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, input("login", "signup", "profile", "logout", "profile"))

	assert.Equal(t, []string{"profile", "logout"}, exec.calls)
	assert.Equal(t, []session.NavigationIntent{
		session.Go(session.NavigateDashboard),
		session.Go(session.NavigateDashboard),
		session.Go(session.NavigateLogin),
	}, exec.navs)
}

func TestRunREPL_SignedInCommandsRequireLogin(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "" }, input("logout", "quit"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.all(), "Please sign in first.")
	assert.Equal(t, []session.NavigationIntent{session.Go(session.NavigateLogin)}, exec.navs)
}

func TestRunREPL_LoadingAcceptsOnlyExit(t *testing.T) {
	out := captureOutput(t)
	exec := &fakeExec{resolving: true}

	runREPL(context.Background(), exec, func() string { return "(loading)" }, input("login", "help", "exit", "login"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.all(), "Loading...")
	assert.Contains(t, out.all(), "Bye!")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	assert.Empty(t, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runREPL(ctx, exec, func() string { return "" }, input("login"))
	assert.Empty(t, exec.calls)
}

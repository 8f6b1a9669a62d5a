package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/kaanoon/internal/client/client"
	"github.com/dmitrijs2005/kaanoon/internal/client/config"
	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/client/otp"
	"github.com/dmitrijs2005/kaanoon/internal/client/services"
	"github.com/dmitrijs2005/kaanoon/internal/client/session"
	"github.com/dmitrijs2005/kaanoon/internal/fakeapi"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app    *App
	api    *fakeapi.Server
	tokens *session.MemoryTokenStore
	out    *output
	delays []time.Duration
}

// newHarness wires an App to a fake backend with an in-memory credential.
// The session is not initialised; call init for that.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{api: fakeapi.New(), tokens: session.NewMemoryTokenStore()}

	ts := httptest.NewServer(h.api.Handler())
	t.Cleanup(ts.Close)

	api, err := client.NewHTTPClient(ts.URL, 5*time.Second, logging.Discard())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CallbackAddr = "127.0.0.1:0"
	cfg.Ephemeral = true

	sess := session.New(h.tokens, session.NewResolver(h.tokens, api, logging.Discard()), logging.Discard())
	h.app = newApp(cfg, logging.Discard(), services.NewAuthService(api, logging.Discard()), sess)
	h.app.out = io.Discard
	t.Cleanup(h.app.Close)

	unsubscribe := sess.Subscribe(h.app.onSessionChange)
	t.Cleanup(unsubscribe)

	h.out = captureOutput(t)

	origSleep := sleep
	sleep = func(_ context.Context, d time.Duration) bool {
		h.delays = append(h.delays, d)
		return true
	}
	t.Cleanup(func() { sleep = origSleep })

	origOpen := openBrowser
	openBrowser = func(string) error { return errors.New("no browser in tests") }
	t.Cleanup(func() { openBrowser = origOpen })

	return h
}

func (h *harness) init(t *testing.T) {
	t.Helper()
	h.app.initSession(context.Background())
	require.False(t, h.app.isResolving())
}

// answer makes the interactive prompts return the given values in order.
func answer(t *testing.T, values ...string) {
	t.Helper()
	next := func() (string, error) {
		if len(values) == 0 {
			return "", io.EOF
		}
		v := values[0]
		values = values[1:]
		return v, nil
	}

	origText, origPw := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return next() }
	getPassword = func(*bufio.Reader, string, io.Writer) ([]byte, error) {
		v, err := next()
		return []byte(v), err
	}
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPw
	})
}

func (h *harness) addUser(t *testing.T) {
	t.Helper()
	h.api.AddUser(models.UserProfile{
		Email:            "ada@example.com",
		FullName:         "Ada Lovelace",
		OrganizationName: "Lovelace LLP",
		OrganizationType: "law_firm",
		DateOfBirth:      "1990-01-01",
	}, "password1", true)
}

func TestNewApp(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Ephemeral = true
	a, err := NewApp(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, a.db)
	a.Close()

	cfg.Ephemeral = false
	cfg.StateDBPath = filepath.Join(t.TempDir(), "session.db")
	a, err = NewApp(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, a.db)
	require.NoError(t, a.db.PingContext(ctx))
	a.Close()

	cfg.APIBaseURL = "not a url"
	_, err = NewApp(ctx, cfg, logging.Discard())
	require.Error(t, err)
}

func TestNewApp_LogsStoredCredential(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	db, err := client.InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, session.NewSQLiteTokenStore(db).Save(ctx, "tok"))
	require.NoError(t, db.Close())

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StateDBPath = path

	var buf bytes.Buffer
	a, err := NewApp(ctx, cfg, logging.NewTextLogger(&buf, "debug"))
	require.NoError(t, err)
	a.Close()

	assert.Contains(t, buf.String(), "stored credential found")
	assert.Contains(t, buf.String(), "saved_at=")
}

func TestGetStatus(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "(loading)", h.app.getStatus())

	h.init(t)
	assert.Equal(t, "(home)", h.app.getStatus())

	h.addUser(t)
	_, err := h.app.session.Login(context.Background(), h.api.IssueToken("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "(dashboard ada@example.com)", h.app.getStatus())
}

func TestInitSession_RestoresStoredCredential(t *testing.T) {
	h := newHarness(t)
	h.addUser(t)
	require.NoError(t, h.tokens.Save(context.Background(), h.api.IssueToken("ada@example.com")))

	h.init(t)

	assert.True(t, h.app.isLoggedIn())
	assert.Equal(t, session.NavigateDashboard, h.app.currentScreen())
	assert.Contains(t, h.out.all(), "Signed in as ada@example.com")
}

func TestInitSession_ExpiredCredential(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.tokens.Save(context.Background(), "stale"))

	h.init(t)

	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, session.NavigateHome, h.app.currentScreen())
	assert.Contains(t, h.out.all(), "Your session has expired. Please sign in again.")
	_, ok, err := h.tokens.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOnSessionChange(t *testing.T) {
	h := newHarness(t)

	h.app.onSessionChange(session.State{Resolving: true})
	assert.Equal(t, session.NavigateHome, h.app.currentScreen())

	user := &models.UserProfile{Email: "ada@example.com"}
	h.app.onSessionChange(session.State{User: user, Authenticated: true})
	assert.Equal(t, session.NavigateDashboard, h.app.currentScreen())

	h.app.onSessionChange(session.State{})
	assert.Equal(t, session.NavigateLogin, h.app.currentScreen())

	h.app.onSessionChange(session.State{})
	assert.Equal(t, session.NavigateLogin, h.app.currentScreen())
}

func TestNavigate_DelayedRedirect(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	ctx := context.Background()

	h.app.Navigate(ctx, session.Go(session.NavigateLogin).After(3*time.Second))
	assert.Equal(t, []time.Duration{3 * time.Second}, h.delays)
	assert.Equal(t, session.NavigateLogin, h.app.currentScreen())
	assert.Contains(t, h.out.all(), "Redirecting to login...")

	sleep = func(context.Context, time.Duration) bool { return false }
	h.app.Navigate(ctx, session.Go(session.NavigateSignup).After(time.Second))
	assert.Equal(t, session.NavigateLogin, h.app.currentScreen(), "cancelled redirect must not move")

	h.app.Navigate(ctx, session.Go(session.NavigateNone))
	assert.Equal(t, session.NavigateLogin, h.app.currentScreen())
}

func TestNavigate_VerifyWithoutEmailGoesToSignup(t *testing.T) {
	h := newHarness(t)
	h.init(t)

	h.app.Navigate(context.Background(), session.GoVerifyOTP(" "))

	assert.Equal(t, session.NavigateSignup, h.app.currentScreen())
	assert.Nil(t, h.app.currentFlow())
	assert.Contains(t, h.out.all(), "Please sign up first.")
}

func TestNavigate_External(t *testing.T) {
	h := newHarness(t)
	h.init(t)
	h.app.config.OpenBrowser = true

	var opened string
	openBrowser = func(u string) error { opened = u; return nil }

	h.app.Navigate(context.Background(), session.GoExternal("https://accounts.example.com/auth"))

	assert.Equal(t, "https://accounts.example.com/auth", opened)
	assert.Contains(t, h.out.all(), "https://accounts.example.com/auth")
	assert.Equal(t, session.NavigateHome, h.app.currentScreen())
}

func TestProfileCard(t *testing.T) {
	got := profileCard(&models.UserProfile{Email: "ada@example.com", FullName: "ada lovelace byron", OrganizationType: "law_firm"})
	assert.Equal(t, []string{
		"[AL] ada lovelace byron",
		"  Email:         ada@example.com",
		"  Organization:  Not set",
		"  Type:          Law Firm",
		"  Date of birth: Not set",
	}, got)

	got = profileCard(&models.UserProfile{Email: "x@example.com"})
	assert.Equal(t, "[U] x@example.com", got[0])
	assert.Equal(t, "  Type:          Not set", got[3])
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &models.ValidationError{Field: "email", Message: "Valid email is required"}, "Valid email is required"},
		{"draft missing", otp.ErrDraftMissing, "Session expired. Please sign up again."},
		{"missing email", otp.ErrMissingEmail, "Please sign up first."},
		{"busy", session.ErrBusy, "Still working on the previous request, please wait."},
		{"login failed", errors.Join(session.ErrLoginFailed, client.ErrSessionExpired), "Failed to complete login"},
		{"request", &client.RequestError{Detail: "Invalid OTP", Kind: client.ErrRequestFailed}, "Invalid OTP"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}

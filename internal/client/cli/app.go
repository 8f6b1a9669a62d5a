package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/kaanoon/internal/client/client"
	"github.com/dmitrijs2005/kaanoon/internal/client/config"
	"github.com/dmitrijs2005/kaanoon/internal/client/otp"
	"github.com/dmitrijs2005/kaanoon/internal/client/services"
	"github.com/dmitrijs2005/kaanoon/internal/client/session"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	auth    services.AuthService
	session *session.Session
	drafts  *session.DraftStore
	reader  *bufio.Reader
	out     io.Writer

	mu           sync.Mutex
	screen       session.Destination
	flow         *otp.Flow
	stopCooldown context.CancelFunc

	closeOnce sync.Once
}

// NewApp builds the client from c. Unless c.Ephemeral is set the credential
// lives in the SQLite file at c.StateDBPath.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}

	var (
		tokens session.TokenStore
		db     *sql.DB
	)
	if c.Ephemeral {
		tokens = session.NewMemoryTokenStore()
	} else {
		db, err = client.InitDatabase(ctx, c.StateDBPath)
		if err != nil {
			logger.Error(ctx, "error initializing database", "path", c.StateDBPath, "error", err)
			return nil, err
		}
		store := session.NewSQLiteTokenStore(db)
		if at, ok, err := store.SavedAt(ctx); err != nil {
			logger.Warn(ctx, "reading credential timestamp", "error", err)
		} else if ok {
			logger.Debug(ctx, "stored credential found", "saved_at", at.Format(time.RFC3339))
		}
		tokens = store
	}

	sess := session.New(tokens, session.NewResolver(tokens, api, logger), logger)
	a := newApp(c, logger, services.NewAuthService(api, logger), sess)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, auth services.AuthService, sess *session.Session) *App {
	return &App{
		config:  c,
		logger:  logger,
		auth:    auth,
		session: sess,
		drafts:  session.NewDraftStore(),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		screen:  session.NavigateHome,
	}
}

// Run resolves any stored session in the background and serves the REPL on
// stdin until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	a.initSignalHandler(cancel)

	unsubscribe := a.session.Subscribe(a.onSessionChange)
	defer unsubscribe()

	printlnFn("Welcome to kaanoon (type 'help' for commands)")
	go a.initSession(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// initSignalHandler ends the program on SIGINT or SIGTERM. The REPL may be
// blocked reading stdin, so the state db is closed here before exiting.
func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
		fmt.Fprintln(a.out)
		a.Close()
		os.Exit(0)
	}()
}

// Close stops any running countdown and closes the state db. It is safe to
// call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.stopVerificationLocked()
		a.mu.Unlock()

		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.logger.Warn(context.Background(), "closing state db", "error", err)
			}
		}
	})
}

func (a *App) initSession(ctx context.Context) {
	err := a.session.Initialize(ctx)
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		printlnFn("Your session has expired. Please sign in again.")
	case err != nil:
		printlnFn("Error:", userMessage(err))
	}
	if st := a.session.State(); st.Authenticated {
		printlnFn("Signed in as", st.User.Email)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated
}

func (a *App) isResolving() bool {
	return a.session.State().Resolving
}

func (a *App) currentScreen() session.Destination {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func isPublic(d session.Destination) bool {
	switch d {
	case session.NavigateHome, session.NavigateLogin, session.NavigateSignup, session.NavigateVerifyOTP:
		return true
	}
	return false
}

// onSessionChange keeps the screen consistent with the session: public
// screens give way to the dashboard once signed in, and the dashboard falls
// back to login when the session goes away.
func (a *App) onSessionChange(st session.State) {
	if st.Resolving {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case st.Authenticated && isPublic(a.screen):
		a.stopVerificationLocked()
		a.screen = session.NavigateDashboard
	case !st.Authenticated && a.screen == session.NavigateDashboard:
		a.screen = session.NavigateLogin
	}
}

func (a *App) getStatus() string {
	st := a.session.State()
	if st.Resolving {
		return "(loading)"
	}

	a.mu.Lock()
	s := a.screen.String()
	if a.screen == session.NavigateVerifyOTP && a.flow != nil {
		s += " " + a.flow.Email()
	}
	a.mu.Unlock()

	if st.Authenticated {
		s += " " + st.User.Email
	}
	return "(" + s + ")"
}

// Navigate applies a NavigationIntent.
func (a *App) Navigate(ctx context.Context, nav session.NavigationIntent) {
	a.navigate(ctx, nav)
}

func (a *App) navigate(ctx context.Context, nav session.NavigationIntent) {
	if nav.IsNone() {
		return
	}
	if nav.Delay > 0 {
		printlnFn(fmt.Sprintf("Redirecting to %s...", nav.To))
		if !sleep(ctx, nav.Delay) {
			return
		}
	}

	switch nav.To {
	case session.NavigateExternal:
		printlnFn("Open this address in your browser to continue:")
		printlnFn(nav.URL)
		if a.config.OpenBrowser {
			if err := openBrowser(nav.URL); err != nil {
				a.logger.Warn(ctx, "could not open browser", "error", err)
			}
		}
		return

	case session.NavigateVerifyOTP:
		if err := a.startVerification(nav.Email); err != nil {
			printlnFn("Please sign up first.")
			a.navigate(ctx, session.Go(session.NavigateSignup))
			return
		}
		printlnFn(fmt.Sprintf("Enter the 6-digit code sent to %s with 'verify <code>'.", nav.Email))
		return
	}

	a.mu.Lock()
	a.stopVerificationLocked()
	a.screen = nav.To
	a.mu.Unlock()

	switch nav.To {
	case session.NavigateDashboard:
		_ = a.Profile(ctx)
	case session.NavigateLogin:
		printlnFn("Sign in with 'login' or 'google'.")
	case session.NavigateSignup:
		printlnFn("Create an account with 'signup'.")
	case session.NavigateHome:
		printlnFn("Type 'help' for commands.")
	}
}

// startVerification moves to the OTP screen for email with a fresh flow and
// a running resend cooldown.
func (a *App) startVerification(email string) error {
	seconds := int(a.config.ResendCooldown / time.Second)
	flow, err := otp.NewFlow(email, a.drafts, a.auth, a.session, otp.NewCooldown(seconds), a.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go flow.Cooldown().Run(ctx, time.Second)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCooldown != nil {
		a.stopCooldown()
	}
	a.flow = flow
	a.stopCooldown = cancel
	a.screen = session.NavigateVerifyOTP
	return nil
}

// stopVerificationLocked ends any running verification. Leaving the OTP
// screen abandons it, so the signup draft goes with it.
func (a *App) stopVerificationLocked() {
	if a.flow != nil {
		a.drafts.Erase()
	}
	if a.stopCooldown != nil {
		a.stopCooldown()
		a.stopCooldown = nil
	}
	a.flow = nil
}

func (a *App) currentFlow() *otp.Flow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flow
}

// sleep waits for d or until ctx is done; it reports whether the full
// delay elapsed. Replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

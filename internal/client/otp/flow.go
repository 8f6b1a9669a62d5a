package otp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/client/session"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
)

var (
	// ErrMissingEmail means verification was reached without coming from
	// signup.
	ErrMissingEmail = errors.New("no email to verify")
	// ErrDraftMissing means the signup draft is gone, typically because the
	// process was restarted between signup and verification.
	ErrDraftMissing = errors.New("signup draft missing")
)

// Gateway is the backend side of verification.
type Gateway interface {
	VerifyOTP(ctx context.Context, email, code string, draft *models.SignupDraft) (string, error)
	ResendOTP(ctx context.Context, email string) error
}

// Authenticator takes the credential issued on verification.
type Authenticator interface {
	Login(ctx context.Context, token string) (session.NavigationIntent, error)
}

// Flow is one verification attempt for one email.
type Flow struct {
	email    string
	drafts   *session.DraftStore
	gateway  Gateway
	auth     Authenticator
	cooldown *Cooldown
	logger   logging.Logger

	mu    sync.Mutex
	entry Entry

	verifying atomic.Bool
	resending atomic.Bool
}

// NewFlow starts verification for email. It fails with ErrMissingEmail when
// email is blank; callers should send the user back to signup.
func NewFlow(email string, drafts *session.DraftStore, gateway Gateway, auth Authenticator, cooldown *Cooldown, logger logging.Logger) (*Flow, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if cooldown == nil {
		cooldown = NewCooldown(DefaultCooldown)
	}
	return &Flow{
		email:    email,
		drafts:   drafts,
		gateway:  gateway,
		auth:     auth,
		cooldown: cooldown,
		logger:   logger.With("component", "otp", "email", email),
	}, nil
}

func (f *Flow) Email() string {
	return f.email
}

func (f *Flow) Cooldown() *Cooldown {
	return f.cooldown
}

// Edit applies fn to the entry under the flow's lock.
func (f *Flow) Edit(fn func(e *Entry)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.entry)
}

// Entry returns a copy of the current entry.
func (f *Flow) Entry() Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entry
}

func (f *Flow) resetEntry() {
	f.Edit(func(e *Entry) { e.Reset() })
}

// Verify submits the entered code together with the signup draft. On
// success the draft is dropped and the issued credential, if any, is handed
// to the authenticator; without one the user is sent to login. A rejected
// code clears the entry.
func (f *Flow) Verify(ctx context.Context) (session.NavigationIntent, error) {
	entry := f.Entry()
	if !entry.Complete() {
		return session.Go(session.NavigateNone), &models.ValidationError{Field: "otp", Message: "Please enter all 6 digits"}
	}

	if !f.verifying.CompareAndSwap(false, true) {
		return session.Go(session.NavigateNone), session.ErrBusy
	}
	defer f.verifying.Store(false)

	draft, ok := f.drafts.Get()
	if !ok {
		f.resetEntry()
		return session.Go(session.NavigateNone), ErrDraftMissing
	}

	token, err := f.gateway.VerifyOTP(ctx, f.email, entry.Code(), &draft)
	if err != nil {
		f.resetEntry()
		return session.Go(session.NavigateNone), err
	}
	f.drafts.Erase()

	if token == "" {
		f.logger.Info(ctx, "verified without credential")
		return session.Go(session.NavigateLogin), nil
	}

	nav, err := f.auth.Login(ctx, token)
	if err != nil {
		return session.Go(session.NavigateLogin), err
	}
	return nav, nil
}

// Resend asks for a new code. While the cooldown runs it does nothing and
// returns false. A successful resend restarts the cooldown and clears the
// entry; a failed one leaves the cooldown as it was.
func (f *Flow) Resend(ctx context.Context) (bool, error) {
	if !f.cooldown.CanResend() {
		return false, nil
	}
	if !f.resending.CompareAndSwap(false, true) {
		return false, session.ErrBusy
	}
	defer f.resending.Store(false)

	if err := f.gateway.ResendOTP(ctx, f.email); err != nil {
		return false, err
	}
	f.cooldown.Restart()
	f.resetEntry()
	f.logger.Info(ctx, "otp resent")
	return true, nil
}

// Abandon drops the signup draft and points back at signup.
func (f *Flow) Abandon() session.NavigationIntent {
	f.drafts.Erase()
	return session.Go(session.NavigateSignup)
}

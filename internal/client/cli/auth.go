package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/client/session"
	"github.com/dmitrijs2005/kaanoon/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and signs in. On success the
// credential is stored, the profile fetched and the dashboard shown.
//
// The password is wiped before returning. Errors are printed and returned.
func (a *App) Login(ctx context.Context) error {
	a.setScreen(session.NavigateLogin)

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.auth.LoginWithPassword(ctx, email, password)
	if err != nil {
		printError(err)
		return err
	}

	nav, err := a.session.Login(ctx, res.Token)
	if err != nil {
		printError(err)
		return err
	}
	a.navigate(ctx, nav)
	return nil
}

// GoogleLogin starts Google sign-in: it asks the backend for the provider
// URL, sends the user there and waits on the loopback listener for the
// backend's redirect.
func (a *App) GoogleLogin(ctx context.Context) error {
	a.setScreen(session.NavigateLogin)

	authURL, err := a.auth.BeginOAuthLogin(ctx)
	if err != nil {
		printError(err)
		return err
	}

	cb, err := listenCallback(a.config.CallbackAddr)
	if err != nil {
		printError(err)
		return err
	}
	defer func() {
		if err := cb.Close(); err != nil {
			a.logger.Warn(ctx, "closing callback listener", "error", err)
		}
	}()

	a.navigate(ctx, session.GoExternal(authURL))
	printlnFn(fmt.Sprintf("Waiting for sign-in to finish at %s ...", cb.URL()))

	wctx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()
	res, err := cb.Wait(wctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			printlnFn("Sign-in timed out.")
		}
		return err
	}

	nav, err := a.completeOAuth(ctx, res)
	a.navigate(ctx, nav)
	return err
}

// completeOAuth handles the callback parameters. Every failure sends the
// user back to login after the configured redirect delay.
func (a *App) completeOAuth(ctx context.Context, res callbackResult) (session.NavigationIntent, error) {
	backToLogin := session.Go(session.NavigateLogin).After(a.config.RedirectDelay)

	if res.Error != "" {
		a.logger.Warn(ctx, "google sign-in returned an error", "error", res.Error)
		printlnFn("Authentication failed")
		return backToLogin, fmt.Errorf("google sign-in: %s", res.Error)
	}
	if res.Token == "" {
		printlnFn("Authentication incomplete")
		return backToLogin, errors.New("google sign-in: no token in callback")
	}

	printlnFn("Completing sign in...")
	nav, err := a.session.Login(ctx, res.Token)
	if err != nil {
		printlnFn("Failed to complete login")
		return backToLogin, err
	}
	return nav, nil
}

// Signup collects the registration form, submits it and moves on to code
// verification. The form is kept in memory until verification ends.
func (a *App) Signup(ctx context.Context) error {
	a.setScreen(session.NavigateSignup)

	draft, err := a.readSignupForm()
	if err != nil {
		return err
	}

	if err := a.auth.SubmitSignup(ctx, draft); err != nil {
		printError(err)
		return err
	}

	a.drafts.Put(*draft)
	printlnFn("Registration started. A verification code was sent to", draft.Email)
	a.navigate(ctx, session.GoVerifyOTP(draft.Email))
	return nil
}

func (a *App) readSignupForm() (*models.SignupDraft, error) {
	var d models.SignupDraft

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &d.FullName},
		{"Email", &d.Email},
		{"Date of birth (YYYY-MM-DD)", &d.DateOfBirth},
		{"Organization type (default: law_firm)", &d.OrganizationType},
		{"Organization name", &d.OrganizationName},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	pw, err := getPassword(a.reader, "Password (min 8 characters)", a.out)
	if err != nil {
		return nil, err
	}
	d.Password = string(pw)
	common.WipeByteArray(pw)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return nil, err
	}
	d.ConfirmPassword = string(confirm)
	common.WipeByteArray(confirm)

	return &d, nil
}

// Logout forgets the stored credential and returns to the home screen.
func (a *App) Logout(ctx context.Context) error {
	nav := a.session.Logout(ctx)
	printlnFn("Signed out.")
	a.navigate(ctx, nav)
	return nil
}

func (a *App) setScreen(d session.Destination) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen == d {
		return
	}
	a.stopVerificationLocked()
	a.screen = d
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaanoon/internal/client/otp"
)

var errNoVerification = errors.New("no verification in progress")

func (a *App) requireFlow() (*otp.Flow, error) {
	f := a.currentFlow()
	if f == nil {
		printlnFn("No verification in progress. Use 'signup' first.")
		return nil, errNoVerification
	}
	return f, nil
}

// Verify submits code, or prompts for one when code is empty. The input is
// treated like a paste into the code boxes.
func (a *App) Verify(ctx context.Context, code string) error {
	f, err := a.requireFlow()
	if err != nil {
		return err
	}

	if code == "" {
		code, err = getSimpleText(a.reader, "Enter the 6-digit code", a.out)
		if err != nil {
			return err
		}
	}

	f.Edit(func(e *otp.Entry) {
		e.Reset()
		e.Paste(code)
	})
	entry := f.Entry()
	printlnFn("Code:", entry.String())

	nav, err := f.Verify(ctx)
	if err != nil {
		printError(err)
	} else {
		printlnFn("Email verified.")
	}
	a.navigate(ctx, nav)
	return err
}

// Resend asks for a new code once the cooldown has run out.
func (a *App) Resend(ctx context.Context) error {
	f, err := a.requireFlow()
	if err != nil {
		return err
	}

	sent, err := f.Resend(ctx)
	switch {
	case err != nil:
		printError(err)
		return err
	case !sent:
		printlnFn(fmt.Sprintf("You can request a new code in %ds.", f.Cooldown().Remaining()))
	default:
		printlnFn("A new code was sent to", f.Email())
	}
	return nil
}

// Status shows the code entered so far and the resend countdown.
func (a *App) Status(_ context.Context) error {
	f, err := a.requireFlow()
	if err != nil {
		return err
	}

	entry := f.Entry()
	printlnFn("Verifying:", f.Email())
	printlnFn("Code:", entry.String())
	if f.Cooldown().CanResend() {
		printlnFn("Didn't get the code? Type 'resend'.")
	} else {
		printlnFn(fmt.Sprintf("Resend available in %ds.", f.Cooldown().Remaining()))
	}
	return nil
}

// Back abandons verification and returns to signup.
func (a *App) Back(ctx context.Context) error {
	f, err := a.requireFlow()
	if err != nil {
		return err
	}
	a.navigate(ctx, f.Abandon())
	return nil
}

// Package services contains the application services of the kaanoon client.
// This file defines the authentication gateway: password login, the Google
// OAuth begin call, signup and the OTP verify/resend pair.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/kaanoon/internal/client/client"
	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - LoginWithPassword: validate the form, exchange email/password for a
//     credential and the user's profile.
//   - BeginOAuthLogin: ask the backend where to send the user for Google
//     sign-in.
//   - SubmitSignup: validate the draft and start registration; the backend
//     mails an OTP.
//   - VerifyOTP: complete registration; the returned credential may be empty.
//   - ResendOTP: mail a fresh OTP for a pending signup.
//
// Form checks fail with *models.ValidationError before any request is made.
// Backend failures are *client.RequestError values matching the client
// sentinels.
type AuthService interface {
	LoginWithPassword(ctx context.Context, email string, password []byte) (*LoginResult, error)
	BeginOAuthLogin(ctx context.Context) (string, error)
	SubmitSignup(ctx context.Context, draft *models.SignupDraft) error
	VerifyOTP(ctx context.Context, email, code string, draft *models.SignupDraft) (string, error)
	ResendOTP(ctx context.Context, email string) error
}

// LoginResult is a successful password login.
type LoginResult struct {
	Token   string
	Profile *models.UserProfile
}

type authService struct {
	client client.Client
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client, logger logging.Logger) AuthService {
	return &authService{client: c, logger: logger.With("component", "auth")}
}

func (a *authService) LoginWithPassword(ctx context.Context, email string, password []byte) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if err := models.ValidateLogin(email, password); err != nil {
		return nil, err
	}

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "password login rejected", "email", email, "error", err)
		return nil, err
	}
	return &LoginResult{Token: resp.AccessToken, Profile: resp.User}, nil
}

func (a *authService) BeginOAuthLogin(ctx context.Context) (string, error) {
	u, err := a.client.GoogleAuthorizeURL(ctx)
	if err != nil {
		a.logger.Warn(ctx, "oauth begin failed", "error", err)
		return "", err
	}
	return u, nil
}

// SubmitSignup normalizes draft in place, so the caller keeps exactly what
// was sent.
func (a *authService) SubmitSignup(ctx context.Context, draft *models.SignupDraft) error {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return err
	}

	if err := a.client.Signup(ctx, draft); err != nil {
		a.logger.Info(ctx, "signup rejected", "email", draft.Email, "error", err)
		return err
	}
	a.logger.Info(ctx, "signup submitted, otp sent", "email", draft.Email)
	return nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string, draft *models.SignupDraft) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", &models.ValidationError{Field: "email", Message: "Email is required"}
	}

	token, err := a.client.VerifyOTP(ctx, email, code, draft)
	if err != nil {
		a.logger.Info(ctx, "otp rejected", "email", email, "error", err)
		return "", err
	}
	a.logger.Info(ctx, "email verified", "email", email, "credential_issued", token != "")
	return token, nil
}

func (a *authService) ResendOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return &models.ValidationError{Field: "email", Message: "Email is required"}
	}
	if err := a.client.ResendOTP(ctx, email); err != nil {
		a.logger.Info(ctx, "otp resend failed", "email", email, "error", err)
		return err
	}
	return nil
}

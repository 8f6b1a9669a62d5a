package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/common"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
	"github.com/dmitrijs2005/kaanoon/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	pathLogin           = "/auth/login"
	pathGoogleAuthorize = "/auth/google/authorize"
	pathSignup          = "/auth/signup"
	pathVerifyOTP       = "/auth/verify-otp"
	pathResendOTP       = "/auth/resend-otp"
	pathMe              = "/auth/me"
)

// HTTPClient implements Client over the backend's JSON API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	logger  logging.Logger
}

// NewHTTPClient validates baseURL and builds a client. A zero timeout leaves
// request deadlines to the transport and the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api base url %q: missing host", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		hc:      &http.Client{Timeout: timeout},
		logger:  logger.With("component", "api"),
	}, nil
}

// BaseURL returns the normalised backend root, without a trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body any, opts ...netx.RequestOption) (*netx.Response, error) {
	rid := uuid.NewString()
	opts = append(opts, netx.WithHeader(common.RequestIDHeaderName, rid))

	start := time.Now()
	resp, err := netx.DoJSON(ctx, c.hc, method, c.baseURL+path, body, opts...)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "op", op, "method", method, "path", path, "request_id", rid, "error", err)
		return nil, &RequestError{
			Op:     op,
			Detail: ErrUnavailable.Error(),
			Kind:   ErrRequestFailed,
			Cause:  errors.Join(ErrUnavailable, err),
		}
	}

	c.logger.Debug(ctx, "request done", "op", op, "method", method, "path", path,
		"status", resp.Status, "request_id", rid, "elapsed", time.Since(start))
	return resp, nil
}

// failure builds the RequestError for a non-2xx reply. The backend's
// detail/message wins over fallback.
func failure(op string, resp *netx.Response, kind error, fallback string) error {
	detail := resp.Detail()
	if detail == "" {
		detail = fallback
	}
	return &RequestError{Op: op, Status: resp.Status, Detail: detail, Kind: kind}
}

func malformed(op string, resp *netx.Response, err error) error {
	return &RequestError{Op: op, Status: resp.Status, Detail: "unexpected response from server", Kind: ErrRequestFailed, Cause: err}
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*LoginResponse, error) {
	const op = "login"

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: string(password)}

	resp, err := c.do(ctx, op, http.MethodPost, pathLogin, body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, &RequestError{Op: op, Status: resp.Status, Detail: "Invalid email or password", Kind: ErrInvalidCredentials}
	case resp.Status == http.StatusForbidden:
		return nil, failure(op, resp, ErrEmailNotVerified, "Please verify your email before logging in")
	case !resp.OK():
		return nil, failure(op, resp, ErrRequestFailed, "Login failed")
	}

	var out LoginResponse
	if err := resp.Decode(&out); err != nil {
		return nil, malformed(op, resp, err)
	}
	if out.AccessToken == "" {
		return nil, malformed(op, resp, errors.New("no access_token in login response"))
	}
	return &out, nil
}

func (c *HTTPClient) GoogleAuthorizeURL(ctx context.Context) (string, error) {
	const op = "google_authorize"

	resp, err := c.do(ctx, op, http.MethodGet, pathGoogleAuthorize, nil)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", failure(op, resp, ErrRequestFailed, fmt.Sprintf("HTTP error! status: %d", resp.Status))
	}

	var out struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", malformed(op, resp, err)
	}
	if strings.TrimSpace(out.AuthorizationURL) == "" {
		return "", &RequestError{Op: op, Status: resp.Status, Detail: "No authorization URL received", Kind: ErrRequestFailed}
	}
	return out.AuthorizationURL, nil
}

func (c *HTTPClient) Signup(ctx context.Context, draft *models.SignupDraft) error {
	const op = "signup"

	resp, err := c.do(ctx, op, http.MethodPost, pathSignup, draft)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return failure(op, resp, ErrRequestFailed, "Registration failed")
	}
	return nil
}

// verifyRequest is the verify-otp body: the email and code followed by
// every signup draft field.
type verifyRequest struct {
	models.SignupDraft
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string, draft *models.SignupDraft) (string, error) {
	const op = "verify_otp"

	body := verifyRequest{Email: email, OTP: code}
	if draft != nil {
		body.SignupDraft = *draft
	}

	resp, err := c.do(ctx, op, http.MethodPost, pathVerifyOTP, body)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", failure(op, resp, ErrRequestFailed, "Invalid OTP")
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return "", nil
	}
	if err := resp.Decode(&out); err != nil {
		return "", malformed(op, resp, err)
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) ResendOTP(ctx context.Context, email string) error {
	const op = "resend_otp"

	body := struct {
		Email string `json:"email"`
	}{Email: email}

	resp, err := c.do(ctx, op, http.MethodPost, pathResendOTP, body)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return failure(op, resp, ErrRequestFailed, "Failed to resend OTP")
	}
	return nil
}

// Me fetches the profile bound to token. Any non-2xx reply is reported as
// ErrSessionExpired.
func (c *HTTPClient) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	const op = "me"

	bearer := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}

	resp, err := c.do(ctx, op, http.MethodGet, pathMe, nil, bearer.SetAuthHeader)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, failure(op, resp, ErrSessionExpired, "Session expired")
	}

	var p models.UserProfile
	if err := resp.Decode(&p); err != nil {
		return nil, malformed(op, resp, err)
	}
	if !p.Valid() {
		return nil, malformed(op, resp, errors.New("profile without email"))
	}
	return &p, nil
}

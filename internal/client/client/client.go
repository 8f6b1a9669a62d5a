package client

import (
	"context"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
)

// LoginResponse is the body of a successful password login.
type LoginResponse struct {
	AccessToken string              `json:"access_token"`
	User        *models.UserProfile `json:"user"`
}

// Client is the backend HTTP contract. Every method is a single exchange;
// nothing is retried.
type Client interface {
	Login(ctx context.Context, email string, password []byte) (*LoginResponse, error)
	GoogleAuthorizeURL(ctx context.Context) (string, error)
	Signup(ctx context.Context, draft *models.SignupDraft) error
	VerifyOTP(ctx context.Context, email, code string, draft *models.SignupDraft) (string, error)
	ResendOTP(ctx context.Context, email string) error
	Me(ctx context.Context, token string) (*models.UserProfile, error)
}

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaanoon/internal/client/client"
	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/logging"
)

// ProfileFetcher is the part of client.Client the resolver needs.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*models.UserProfile, error)
}

// Resolver turns the stored credential into a user profile.
type Resolver struct {
	tokens   TokenStore
	profiles ProfileFetcher
	logger   logging.Logger
}

func NewResolver(tokens TokenStore, profiles ProfileFetcher, logger logging.Logger) *Resolver {
	return &Resolver{tokens: tokens, profiles: profiles, logger: logger}
}

// Resolve returns (nil, nil) when no credential is stored, without touching
// the network. Any failure to fetch a usable profile clears the credential
// and is reported as client.ErrSessionExpired wrapping the cause.
func (r *Resolver) Resolve(ctx context.Context) (*models.UserProfile, error) {
	token, ok, err := r.tokens.Read(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	p, err := r.profiles.Me(ctx, token)
	if err == nil && !p.Valid() {
		err = errors.New("profile without email")
	}
	if err != nil {
		if cerr := r.tokens.Clear(ctx); cerr != nil {
			r.logger.Error(ctx, "failed to clear rejected credential", "error", cerr)
		}
		r.logger.Info(ctx, "stored credential rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", client.ErrSessionExpired, err)
	}
	return p, nil
}

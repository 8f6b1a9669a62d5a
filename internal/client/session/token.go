package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/kaanoon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/kaanoon/internal/common"
	"github.com/dmitrijs2005/kaanoon/internal/dbx"
)

// TokenStore persists the single bearer credential.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	// Read returns ok=false when no credential is stored.
	Read(ctx context.Context) (token string, ok bool, err error)
	Clear(ctx context.Context) error
}

// SQLiteTokenStore keeps the credential in the metadata table of the local
// state DB, so it survives restarts.
type SQLiteTokenStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteTokenStore(db *sql.DB) *SQLiteTokenStore {
	return &SQLiteTokenStore{db: db, now: time.Now}
}

func (s *SQLiteTokenStore) Save(ctx context.Context, token string) error {
	savedAt := s.now().UTC().Format(time.RFC3339)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.AccessTokenSavedAtKey, []byte(savedAt))
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *SQLiteTokenStore) Read(ctx context.Context) (string, bool, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", false, fmt.Errorf("read token: %w", err)
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

// SavedAt reports when the credential was last written.
func (s *SQLiteTokenStore) SavedAt(ctx context.Context) (time.Time, bool, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.AccessTokenSavedAtKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read token timestamp: %w", err)
	}
	if len(v) == 0 {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse token timestamp: %w", err)
	}
	return t, true, nil
}

func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, common.AccessTokenKey, common.AccessTokenSavedAtKey)
	})
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// MemoryTokenStore forgets the credential when the process exits.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Read(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != "", nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

package session

import (
	"sync"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
)

// DraftStore keeps the signup draft between the signup submission and the
// end of OTP verification. It lives only as long as the process.
type DraftStore struct {
	mu    sync.Mutex
	draft *models.SignupDraft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{}
}

// Put replaces the stored draft with a copy of d.
func (s *DraftStore) Put(d models.SignupDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &d
}

// Get returns a copy of the stored draft.
func (s *DraftStore) Get() (models.SignupDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return models.SignupDraft{}, false
	}
	return *s.draft, true
}

func (s *DraftStore) Erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

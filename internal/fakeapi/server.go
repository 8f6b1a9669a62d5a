// Package fakeapi is an in-process implementation of the kaanoon backend
// HTTP contract. Tests mount Server.Handler on an httptest server and drive
// the real client against it.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
	"github.com/dmitrijs2005/kaanoon/internal/common"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// DefaultOTP is the code every signup and resend is issued with.
const DefaultOTP = "123456"

// User is a registered account.
type User struct {
	ID           string
	Profile      models.UserProfile
	PasswordHash []byte
	Verified     bool
}

type pendingSignup struct {
	draft models.SignupDraft
	code  string
}

type forcedReply struct {
	status int
	body   any
}

// Server holds the fake backend state. All exported knobs may be changed
// between requests; they are read under the server mutex.
type Server struct {
	mu       sync.Mutex
	users    map[string]*User
	pending  map[string]*pendingSignup
	revoked  map[string]bool
	forced   map[string][]forcedReply
	calls    map[string]int
	lastBody map[string]map[string]any
	secret   []byte
	router   *mux.Router

	// OTPCode is issued for new signups and resends.
	OTPCode string
	// AuthorizationURL is the provider URL returned by the Google begin call.
	AuthorizationURL string
	// TokenOnVerify controls whether verify-otp answers with an access token.
	TokenOnVerify bool
	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration
}

func New() *Server {
	s := &Server{
		users:            make(map[string]*User),
		pending:          make(map[string]*pendingSignup),
		revoked:          make(map[string]bool),
		forced:           make(map[string][]forcedReply),
		calls:            make(map[string]int),
		lastBody:         make(map[string]map[string]any),
		secret:           []byte(uuid.NewString()),
		OTPCode:          DefaultOTP,
		AuthorizationURL: "https://accounts.google.com/o/oauth2/v2/auth",
		TokenOnVerify:    true,
		TokenTTL:         time.Hour,
	}

	r := mux.NewRouter()
	r.Use(s.countCalls)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/google/authorize", s.googleAuthorize).Methods(http.MethodGet)
	r.HandleFunc("/auth/signup", s.signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-otp", s.verifyOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/resend-otp", s.resendOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)
	s.router = r

	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// AddUser registers an account directly, bypassing signup.
func (s *Server) AddUser(profile models.UserProfile, password string, verified bool) *User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &User{ID: uuid.NewString(), Profile: profile, PasswordHash: hash, Verified: verified}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(profile.Email)] = u
	return u
}

// User returns the account registered for email, if any.
func (s *Server) User(email string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	return u, ok
}

// IssueToken mints an access token for email without a login round-trip.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := generateToken(email, s.secret, s.TokenTTL)
	if err != nil {
		panic(err)
	}
	return tok
}

// Revoke makes /auth/me reject token from now on.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// FailNext queues a canned reply for the next request to path. body is
// JSON-encoded; a nil body sends no content.
func (s *Server) FailNext(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced[path] = append(s.forced[path], forcedReply{status: status, body: body})
}

// Calls reports how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastBody returns the decoded JSON body of the latest request to path.
func (s *Server) LastBody(path string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody[path]
}

// PendingOTP returns the code outstanding for email, or "".
func (s *Server) PendingOTP(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[strings.ToLower(email)]; ok {
		return p.code
	}
	return ""
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		queue := s.forced[r.URL.Path]
		var reply *forcedReply
		if len(queue) > 0 {
			reply = &queue[0]
			s.forced[r.URL.Path] = queue[1:]
		}
		s.mu.Unlock()

		if reply != nil {
			if reply.body == nil {
				w.WriteHeader(reply.status)
				return
			}
			writeJSON(w, reply.status, reply.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

// decode reads the body into v and records it for LastBody.
func (s *Server) decode(r *http.Request, v any) bool {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return false
	}
	s.mu.Lock()
	s.lastBody[r.URL.Path] = raw
	s.mu.Unlock()

	b, err := json.Marshal(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decode(r, &req) {
		writeJSON(w, http.StatusUnprocessableEntity, detail("invalid request body"))
		return
	}

	u, ok := s.User(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, detail("Incorrect email or password"))
		return
	}
	if !u.Verified {
		writeJSON(w, http.StatusForbidden, detail("Email not verified. Please check your inbox."))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": s.IssueToken(u.Profile.Email),
		"token_type":   "bearer",
		"user":         u.Profile,
	})
}

func (s *Server) googleAuthorize(w http.ResponseWriter, r *http.Request) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, detail(err.Error()))
		return
	}
	s.mu.Lock()
	base := s.AuthorizationURL
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"authorization_url": base + "?state=" + state})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var d models.SignupDraft
	if !s.decode(r, &d) {
		writeJSON(w, http.StatusUnprocessableEntity, detail("invalid request body"))
		return
	}
	if d.Email == "" || d.FullName == "" || d.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "field required"}},
		})
		return
	}
	if u, ok := s.User(d.Email); ok && u.Verified {
		writeJSON(w, http.StatusBadRequest, detail("Email already registered"))
		return
	}

	s.mu.Lock()
	s.pending[strings.ToLower(d.Email)] = &pendingSignup{draft: d, code: s.OTPCode}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to " + d.Email})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.SignupDraft
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !s.decode(r, &req) {
		writeJSON(w, http.StatusUnprocessableEntity, detail("invalid request body"))
		return
	}

	key := strings.ToLower(req.Email)
	s.mu.Lock()
	p, ok := s.pending[key]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("No pending signup for this email"))
		return
	}
	if req.OTP != p.code {
		writeJSON(w, http.StatusBadRequest, detail("Invalid OTP"))
		return
	}

	d := p.draft
	if req.Password != "" {
		d.Password = req.Password
	}
	s.AddUser(models.UserProfile{
		Email:            req.Email,
		FullName:         d.FullName,
		OrganizationName: d.OrganizationName,
		OrganizationType: d.OrganizationType,
		DateOfBirth:      d.DateOfBirth,
	}, d.Password, true)

	s.mu.Lock()
	delete(s.pending, key)
	withToken := s.TokenOnVerify
	s.mu.Unlock()

	if !withToken {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": s.IssueToken(req.Email),
		"token_type":   "bearer",
	})
}

func (s *Server) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !s.decode(r, &req) {
		writeJSON(w, http.StatusUnprocessableEntity, detail("invalid request body"))
		return
	}

	s.mu.Lock()
	p, ok := s.pending[strings.ToLower(req.Email)]
	if ok {
		p.code = s.OTPCode
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No pending signup for this email"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP resent"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		writeJSON(w, http.StatusUnauthorized, detail("Not authenticated"))
		return
	}

	s.mu.Lock()
	revoked := s.revoked[token]
	s.mu.Unlock()
	if revoked {
		writeJSON(w, http.StatusUnauthorized, detail("Could not validate credentials"))
		return
	}

	email, err := emailFromToken(token, s.secret)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, detail("Could not validate credentials"))
		return
	}
	u, ok := s.User(email)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail("User not found"))
		return
	}
	writeJSON(w, http.StatusOK, u.Profile)
}

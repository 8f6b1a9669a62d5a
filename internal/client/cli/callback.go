package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const (
	callbackPath = "/auth/callback"
	// callbackTimeout bounds how long Google sign-in may take in the browser.
	callbackTimeout = 5 * time.Minute
)

// callbackResult is what the backend put on the callback URL.
type callbackResult struct {
	Token string
	Error string
}

// callbackServer is the loopback listener the backend redirects the browser
// to at the end of Google sign-in. Only the first hit is delivered.
type callbackServer struct {
	srv     *http.Server
	addr    string
	results chan callbackResult
	errs    chan error
}

func newCallbackRouter(results chan<- callbackResult) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(callbackPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		res := callbackResult{Token: q.Get("token"), Error: q.Get("error")}

		select {
		case results <- res:
		default:
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if res.Error != "" || res.Token == "" {
			fmt.Fprintln(w, "Sign-in did not complete. Return to the terminal.")
			return
		}
		fmt.Fprintln(w, "Completing sign in... You can close this window and return to the terminal.")
	}).Methods(http.MethodGet)
	return r
}

func listenCallback(addr string) (*callbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for sign-in callback on %s: %w", addr, err)
	}

	results := make(chan callbackResult, 1)
	s := &callbackServer{
		srv: &http.Server{
			Handler:           newCallbackRouter(results),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr:    ln.Addr().String(),
		results: results,
		errs:    make(chan error, 1),
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return s, nil
}

// URL is where the browser has to land.
func (s *callbackServer) URL() string {
	return "http://" + s.addr + callbackPath
}

// Wait blocks until the callback arrives, the listener fails or ctx ends.
func (s *callbackServer) Wait(ctx context.Context) (callbackResult, error) {
	select {
	case res := <-s.results:
		return res, nil
	case err := <-s.errs:
		return callbackResult{}, err
	case <-ctx.Done():
		return callbackResult{}, ctx.Err()
	}
}

func (s *callbackServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

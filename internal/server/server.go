// Package server runs the short-lived localhost HTTP server that
// completes OAuth2 authorization code flows for the auth login command.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Logging returns middleware that logs each request.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// AuthFlow drives a one-shot OAuth2 authorization code flow. It serves
// a single callback on a localhost address, exchanges the code for a
// token, and shuts the server down.
type AuthFlow struct {
	config *oauth2.Config
	state  string
	addr   string
	logger *log.Logger
}

// NewAuthFlow creates a flow for the given OAuth2 config, listening on
// addr. A fresh random state token is generated for CSRF protection.
func NewAuthFlow(config *oauth2.Config, addr string, logger *log.Logger) (*AuthFlow, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}
	return &AuthFlow{
		config: config,
		state:  hex.EncodeToString(buf),
		addr:   addr,
		logger: logger,
	}, nil
}

// AuthURL returns the authorization URL the user must open in a browser.
func (f *AuthFlow) AuthURL() string {
	return f.config.AuthCodeURL(f.state, oauth2.AccessTypeOffline)
}

// Wait serves the callback endpoint until one authorization completes,
// the context is canceled, or the server fails. The returned token
// includes a refresh token when the provider grants offline access.
func (f *AuthFlow) Wait(ctx context.Context) (*oauth2.Token, error) {
	handler := newCallbackHandler(f.config, f.state)

	mux := http.NewServeMux()
	mux.Handle("/callback", Logging(f.logger)(handler))

	srv := &http.Server{Addr: f.addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-handler.Result():
		if result.err != nil {
			return nil, result.err
		}
		return result.token, nil
	case err := <-errCh:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

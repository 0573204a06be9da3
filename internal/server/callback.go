package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// callbackHandler processes exactly one OAuth2 callback: it validates
// the state parameter, exchanges the authorization code, and delivers
// the result on a channel.
type callbackHandler struct {
	config  *oauth2.Config
	state   string
	results chan callbackResult

	mu      sync.Mutex
	once    sync.Once
	handled bool
}

func newCallbackHandler(config *oauth2.Config, state string) *callbackHandler {
	return &callbackHandler{
		config:  config,
		state:   state,
		results: make(chan callbackResult, 1),
	}
}

// Result returns the channel that receives exactly one flow outcome.
func (h *callbackHandler) Result() <-chan callbackResult {
	return h.results
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.send(callbackResult{err: fmt.Errorf("state mismatch in callback")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.send(callbackResult{err: fmt.Errorf("authorization denied: %s (%s)",
			query.Get("error"), query.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.send(callbackResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(callbackResult{token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

func (h *callbackHandler) send(result callbackResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`

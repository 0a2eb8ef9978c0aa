package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/walkon/internal/auth"
)

// CallbackCompleter is the part of the session gate the callback handler
// needs: someone to hand the redirect parameters to.
type CallbackCompleter interface {
	HandleCallback(ctx context.Context, cb auth.Callback) error
}

// CallbackHandler receives the provider redirect at /callback and hands
// the query parameters to the auth subsystem. All validation (state,
// session, exchange) happens there; this handler only adapts HTTP to
// [auth.Callback] and renders a small status page.
//
// The handler processes exactly one callback; replays get a 400.
type CallbackHandler struct {
	gate       CallbackCompleter
	timeout    time.Duration
	resultChan chan error
	once       sync.Once
	handled    bool
	mu         sync.Mutex
}

// NewCallbackHandler creates a handler delegating to the given gate.
func NewCallbackHandler(gate CallbackCompleter) *CallbackHandler {
	return &CallbackHandler{
		gate:       gate,
		timeout:    30 * time.Second,
		resultChan: make(chan error, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the provider redirect.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	query := r.URL.Query()
	cb := auth.Callback{
		Code:  query.Get("code"),
		State: query.Get("state"),
		Error: query.Get("error"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.gate.HandleCallback(ctx, cb)
	h.Send(err)

	if err != nil {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, failureHTML, err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successHTML)
}

// Send delivers the callback outcome to the waiting CLI (only once).
func (h *CallbackHandler) Send(err error) {
	h.once.Do(func() {
		h.resultChan <- err
		close(h.resultChan)
	})
}

// Result returns the channel receiving the single callback outcome.
func (h *CallbackHandler) Result() <-chan error {
	return h.resultChan
}

const successHTML = `
<!DOCTYPE html>
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

const failureHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Failed</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #c0392b; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✗ Authorization Failed</h1>
        <p>%v</p>
    </div>
</body>
</html>
`

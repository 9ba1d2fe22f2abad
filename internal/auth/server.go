package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// CallbackPort is the default port for the OAuth callback server
	CallbackPort = 8089
	// AuthTimeout is how long to wait for the user to complete auth
	AuthTimeout = 5 * time.Minute
)

// Options tunes the interactive flow
type Options struct {
	Port    int           // 0 picks a free port
	Timeout time.Duration // defaults to AuthTimeout
	Out     io.Writer     // instructions for the user; nil discards them
	OnURL   func(authURL string)
}

// DefaultOptions prints instructions to out and listens on CallbackPort
func DefaultOptions(out io.Writer) Options {
	return Options{Port: CallbackPort, Timeout: AuthTimeout, Out: out}
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>pacecalc connected</title></head>
<body style="font-family: system-ui; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0;">
<div style="text-align: center;">
<h1 style="color: #10B981;">Connected to Strava</h1>
<p>You can close this window and return to the terminal.</p>
</div>
</body>
</html>`

// Authenticate runs the OAuth flow with a local callback server
func Authenticate(ctx context.Context, cfg *oauth2.Config, opts Options) (*AuthResult, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = AuthTimeout
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	report := func(err error) {
		select {
		case errChan <- err:
		default:
		}
	}

	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			report(errors.New("state mismatch - possible CSRF attack"))
			http.Error(w, "State mismatch", http.StatusBadRequest)
			return
		}
		if errMsg := q.Get("error"); errMsg != "" {
			report(fmt.Errorf("auth error: %s", errMsg))
			http.Error(w, "Authentication failed", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			report(errors.New("no code in callback"))
			http.Error(w, "No authorization code", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, successPage)
		select {
		case codeChan <- code:
		default:
		}
	})

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}

	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", listener.Addr().(*net.TCPAddr).Port)

	server := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			report(fmt.Errorf("server error: %w", err))
		}
	}()
	defer shutdownServer(server)

	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintln(opts.Out)
	fmt.Fprintln(opts.Out, "To connect pacecalc to Strava, open this URL in your browser:")
	fmt.Fprintln(opts.Out)
	fmt.Fprintf(opts.Out, "  %s\n", authURL)
	fmt.Fprintln(opts.Out)
	fmt.Fprintln(opts.Out, "Waiting for authentication...")
	if opts.OnURL != nil {
		opts.OnURL(authURL)
	}

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-timer.C:
		return nil, fmt.Errorf("authentication timeout after %v", opts.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := flowCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}

	return &AuthResult{
		Token:     token,
		AthleteID: ExtractAthleteID(token),
	}, nil
}

func shutdownServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

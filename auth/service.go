package auth

import (
	"context"
	"net/http"

	"github.com/aalemi-dev/tracewire/httpbinder"
	"github.com/aalemi-dev/tracewire/scope"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the register request body. Age is omitted when nil.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
}

// Service runs the login and register flows.
type Service struct {
	cfg    Config
	http   httpbinder.Requester
	scopes *scope.Manager
	store  TokenStore
	logger Logger
}

// NewService creates a Service that sends requests with requester and keeps
// the token in store.
func NewService(cfg Config, requester httpbinder.Requester, scopes *scope.Manager, store TokenStore) *Service {
	return &Service{
		cfg:    cfg.withDefaults(),
		http:   requester,
		scopes: scopes,
		store:  store,
	}
}

// WithLogger attaches a logger.
func (s *Service) WithLogger(logger Logger) *Service {
	s.logger = logger
	return s
}

// Login posts credentials and stores the returned token. The call runs in a
// new trace named auth.login. An HTTP failure is returned unchanged, so a
// rejected login reads "HTTP 401 Unauthorized".
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	return s.authenticate(ctx, "auth.login", s.cfg.LoginPath, Credentials{Email: email, Password: password}, ErrNoLoginToken)
}

// Register creates an account and stores the returned token. The call runs
// in a new trace named auth.register.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return s.authenticate(ctx, "auth.register", s.cfg.RegisterPath, req, ErrNoRegisterToken)
}

func (s *Service) authenticate(ctx context.Context, name, path string, body interface{}, errNoToken error) (string, error) {
	var token string
	err := s.scopes.RunInNewScope(ctx, name, s.scopes.Sample(), func(ctx context.Context) error {
		data, err := s.http.Do(ctx, path, httpbinder.RequestOptions{Method: http.MethodPost, JSON: body})
		if err != nil {
			return err
		}

		token = ExtractToken(data)
		if token == "" {
			return errNoToken
		}

		if err := s.store.Set(token); err != nil && s.logger != nil {
			s.logger.WarnWithContext(ctx, "failed to store auth token", err, map[string]interface{}{
				"flow": name,
			})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout removes the stored token.
func (s *Service) Logout(ctx context.Context) {
	if err := s.store.Clear(); err != nil && s.logger != nil {
		s.logger.WarnWithContext(ctx, "failed to clear auth token", err)
	}
}

// Token returns the stored token, or "" when logged out.
func (s *Service) Token() string {
	return s.store.Get()
}

// LoggedIn reports whether a token is stored.
func (s *Service) LoggedIn() bool {
	return s.Token() != ""
}

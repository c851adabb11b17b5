package auth

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/tracewire/httpbinder"
	"github.com/aalemi-dev/tracewire/logger"
	"github.com/aalemi-dev/tracewire/scope"
)

// FXModule provides the *Service and a FileStore exposed as TokenStore.
var FXModule = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			NewFileStoreFromConfig,
			fx.As(new(TokenStore)),
		),
		NewServiceWithDI,
	),
)

// NewFileStoreFromConfig creates the FileStore described by cfg.
func NewFileStoreFromConfig(cfg Config) (*FileStore, error) {
	cfg = cfg.withDefaults()
	return NewFileStore(cfg.StorageDir, cfg.StorageKey)
}

// ServiceParams groups the dependencies for creating a Service.
type ServiceParams struct {
	fx.In

	Config    Config
	Requester httpbinder.Requester
	Scopes    *scope.Manager
	Store     TokenStore
	Logger    logger.Logger `optional:"true"`
}

// NewServiceWithDI creates a Service from injected dependencies.
func NewServiceWithDI(params ServiceParams) *Service {
	s := NewService(params.Config, params.Requester, params.Scopes, params.Store)
	if params.Logger != nil {
		s.WithLogger(params.Logger)
	}
	return s
}

// Package api provides the admin HTTP/HTTPS API: an authenticated GraphQL
// endpoint over the account and realm stores, used by cmd/authadmin and any
// other operator tooling.
//
//nolint:revive // "api" is a clear and appropriate package name
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	graphqlrelay "github.com/graph-gophers/graphql-go/relay"
	"github.com/gorilla/mux"

	"github.com/wowauth/authd/internal/accounts"
	"github.com/wowauth/authd/internal/api/middleware"
	"github.com/wowauth/authd/internal/config"
	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
	tlspkg "github.com/wowauth/authd/internal/tls"
)

// Server is the admin HTTPS API. It satisfies orchestrator.AdminAPI.
type Server struct {
	httpServer *http.Server
	log        *logging.Logger
	cfg        *config.Config

	tokens        *tokenIssuer
	adminUsername string
	adminPassword string
}

// New builds the admin API server, wiring GraphQL resolvers to the given
// stores and bearer-token auth to cfg.API's admin credentials and JWT
// secret. The TLS certificate at cfg.API.TLSCert/TLSKey must already exist;
// see the `init` subcommand of cmd/authserver.
func New(cfg *config.Config, accountStore accounts.Store, realmStore realms.Store, log *logging.Logger) (*Server, error) {
	schema, err := newSchema(accountStore, realmStore)
	if err != nil {
		return nil, fmt.Errorf("api: building graphql schema: %w", err)
	}

	ttl, err := cfg.TokenTTLDuration()
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:           log,
		cfg:           cfg,
		tokens:        newTokenIssuer(cfg.API.JWTSecret, ttl),
		adminUsername: cfg.API.AdminUsername,
		adminPassword: cfg.API.AdminPassword,
	}

	auth := middleware.NewAuthMiddleware(s.tokens)

	router := mux.NewRouter()
	router.HandleFunc("/admin/login", s.handleLogin).Methods(http.MethodPost)
	router.Handle("/graphql", auth.Require(graphqlrelay.Handler{Schema: schema})).Methods(http.MethodPost)
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)

	handler := middleware.Logging(log)(middleware.ErrorHandler(log)(router))

	tlsConfig, err := tlspkg.NewServerConfig(cfg.API.TLSCert, cfg.API.TLSKey)
	if err != nil {
		return nil, fmt.Errorf("api: loading tls config: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.APIAddress(),
		Handler:           handler,
		TLSConfig:         tlsConfig,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// ListenAndServe starts the HTTPS server and blocks until ctx is canceled
// or the listener fails, satisfying orchestrator.AdminAPI.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log.Info("starting admin api", map[string]any{"address": s.httpServer.Addr})

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("admin api: %w", err)
	case <-ctx.Done():
		s.log.Info("shutting down admin api", nil)
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("admin api: shutdown: %w", err)
	}
	return nil
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

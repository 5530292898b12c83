// Package orchestrator wires the authentication acceptor, heartbeat
// receiver, realm-list updater, and optional admin API into a single
// fail-fast process.
package orchestrator

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/wowauth/authd/internal/accounts"
	"github.com/wowauth/authd/internal/authsession"
	"github.com/wowauth/authd/internal/config"
	"github.com/wowauth/authd/internal/heartbeat"
	"github.com/wowauth/authd/internal/lifecycle"
	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
	"github.com/wowauth/authd/internal/realmupdater"
)

// adminShutdownTimeout bounds how long Run waits for the admin API's own
// graceful HTTP shutdown (internal/api.Server gives itself 5s) to finish
// before giving up and returning anyway.
const adminShutdownTimeout = 10 * time.Second

// AdminAPI is the capability the optional admin HTTP/GraphQL server must
// provide to be supervised by the orchestrator. It is satisfied by
// internal/api.Server.
type AdminAPI interface {
	ListenAndServe(ctx context.Context) error
}

// Orchestrator owns the long-running tasks of the auth server and runs them
// under a single fail-fast supervision policy.
type Orchestrator struct {
	cfg          *config.Config
	accountStore accounts.Store
	realmStore   realms.Store
	adminAPI     AdminAPI
	log          *logging.Logger
}

// New creates an Orchestrator. adminAPI may be nil, in which case the admin
// task is never started regardless of configuration.
func New(cfg *config.Config, accountStore accounts.Store, realmStore realms.Store, adminAPI AdminAPI, log *logging.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		accountStore: accountStore,
		realmStore:   realmStore,
		adminAPI:     adminAPI,
		log:          log,
	}
}

// Run starts the required tasks and blocks until one of them terminates,
// then cancels the rest and returns that task's error. A nil error means
// ctx itself was cancelled (e.g. by a shutdown signal), not a task failure.
func (o *Orchestrator) Run(ctx context.Context) error {
	table := heartbeat.NewTable()
	limiter := authsession.NewRateLimiter()
	defer limiter.Close()

	group := lifecycle.NewFailFastGroup()
	group.Add("auth-acceptor", func(ctx context.Context) error {
		return o.runAcceptor(ctx, limiter)
	})
	group.Add("heartbeat-receiver", func(ctx context.Context) error {
		receiver := heartbeat.NewReceiver(table, o.realmStore, o.log)
		return receiver.ListenAndServe(ctx, o.cfg.HeartbeatAddress())
	})
	group.Add("realm-list-updater", func(ctx context.Context) error {
		updater := realmupdater.New(table, o.realmStore, o.log)
		return updater.Run(ctx)
	})

	var cancelAPI context.CancelFunc
	var adminDone chan struct{}
	if o.cfg.APIEnabled() && o.adminAPI != nil {
		var apiCtx context.Context
		apiCtx, cancelAPI = context.WithCancel(ctx)
		adminDone = make(chan struct{})
		go func() {
			defer close(adminDone)
			if err := o.adminAPI.ListenAndServe(apiCtx); err != nil && apiCtx.Err() == nil {
				o.log.Error("admin API stopped unexpectedly", map[string]any{"error": err.Error()})
			}
		}()
	}

	name, err := group.Run(ctx)

	if cancelAPI != nil {
		cancelAPI()
		waitErr := lifecycle.GracefulShutdown(context.Background(), func(context.Context) error {
			<-adminDone
			return nil
		}, adminShutdownTimeout)
		if waitErr != nil {
			o.log.Warn("admin API did not shut down in time", map[string]any{"error": waitErr.Error()})
		}
	}

	if err != nil {
		o.log.Error("task exited, shutting down", map[string]any{"task": name, "error": err.Error()})
		return fmt.Errorf("task %q failed: %w", name, err)
	}
	o.log.Info("shutting down", map[string]any{"task": name})
	return nil
}

func (o *Orchestrator) runAcceptor(ctx context.Context, limiter *authsession.RateLimiter) error {
	listener, err := net.Listen("tcp", o.cfg.AuthAddress())
	if err != nil {
		return fmt.Errorf("orchestrator: listening on %s: %w", o.cfg.AuthAddress(), err)
	}

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	o.log.Info("auth acceptor listening", map[string]any{"address": o.cfg.AuthAddress()})

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("orchestrator: accept: %w", err)
		}

		session := authsession.New(conn, o.accountStore, o.realmStore, limiter, o.log)
		go session.Serve(ctx)
	}
}

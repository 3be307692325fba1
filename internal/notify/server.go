package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// ErrServerNotReady is returned when the embedded server misses its startup deadline.
var ErrServerNotReady = errors.New("nats server not ready for connections")

// EmbeddedServer runs an in-process NATS server on a free loopback port
// for single-node deployments.
type EmbeddedServer struct {
	ns *server.Server

	startupTimeout time.Duration
}

// ServerOpt configures an EmbeddedServer.
type ServerOpt func(*EmbeddedServer)

// WithStartTimeout sets the startup timeout.
func WithStartTimeout(d time.Duration) ServerOpt {
	return func(s *EmbeddedServer) { s.startupTimeout = d }
}

// NewEmbeddedServer configures a server; call Start to listen.
func NewEmbeddedServer(opts ...ServerOpt) (*EmbeddedServer, error) {
	s := &EmbeddedServer{
		startupTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   server.RANDOM_PORT,
		NoSigs: true, // сигналы обрабатывает процесс
		NoLog:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns
	return s, nil
}

// Start begins listening and waits until clients can connect.
func (s *EmbeddedServer) Start() error {
	s.ns.Start()
	if !s.ns.ReadyForConnections(s.startupTimeout) {
		s.ns.Shutdown()
		return ErrServerNotReady
	}
	slog.Info("nats server listening", "addr", s.ns.Addr())
	return nil
}

// ClientURL returns the URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.ns.ClientURL()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}

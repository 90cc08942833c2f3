// Package server provides application lifecycle management including
// graceful startup and shutdown with signal handling.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// service pairs a blocking start function with its stop function.
type service struct {
	name  string
	start func() error
	stop  func()
}

// Lifecycle manages the startup and shutdown of the server's long-running
// components. Components are started in registration order and stopped in
// reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	mu       sync.Mutex
	services []service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger: logger,
	}
}

// Add registers a named component. start should block until the component
// stops or fails; stop must cause start to return.
//
// Precondition: name must be non-empty; start and stop must be non-nil.
func (l *Lifecycle) Add(name string, start func() error, stop func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, service{name: name, start: start, stop: stop})
}

// Run starts all components and blocks until a termination signal (SIGINT or
// SIGTERM), a component failure, or context cancellation. Components are
// then stopped in reverse order.
//
// Postcondition: All components are stopped when this method returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(l.services))
	for _, svc := range l.services {
		svc := svc
		go func() {
			l.logger.Info("starting service", zap.String("service", svc.name))
			svcStart := time.Now()
			if err := svc.start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", svc.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", svc.name, err)
				cancel()
			}
		}()
	}

	l.logger.Info("all services started",
		zap.Int("count", len(l.services)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-errCh:
		l.logger.Error("service error, shutting down", zap.Error(err))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.shutdown()

	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return nil
}

func (l *Lifecycle) shutdown() {
	shutdownStart := time.Now()
	for i := len(l.services) - 1; i >= 0; i-- {
		svc := l.services[i]
		svcStart := time.Now()
		l.logger.Info("stopping service", zap.String("service", svc.name))
		svc.stop()
		l.logger.Info("service stopped",
			zap.String("service", svc.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped",
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
}

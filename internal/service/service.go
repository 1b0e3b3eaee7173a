// Package service is the facade the front ends talk to. It wraps each
// tracker operation with an operation id, a deadline and logging, and
// implements the account flows that span several operations: sign-up with
// password hashing, login, logout and resuming a remembered session.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/productivity-tracker/internal/logging"
	"github.com/nhle/productivity-tracker/internal/tracker"
)

// ErrInvalidCredentials is returned by Login when the credential names no
// user or the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Option configures a Service.
type Option func(*Service)

// WithPasswordCost sets the bcrypt cost used when hashing new passwords.
func WithPasswordCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// Service exposes the tracker operations to the front ends.
type Service struct {
	tracker *tracker.Tracker
	logger  *slog.Logger
	timeout time.Duration
	cost    int
}

// New creates a Service. Every call runs under timeout unless it is zero.
func New(tr *tracker.Tracker, logger *slog.Logger, timeout time.Duration, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Service{
		tracker: tr,
		logger:  logger,
		timeout: timeout,
		cost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// call runs fn as one facade operation: it attaches an operation id and a
// scoped logger to ctx, applies the deadline and logs the outcome.
func call[T any](s *Service, ctx context.Context, op string, fn func(ctx context.Context) (T, error), attrs ...any) (T, error) {
	logger := s.logger.With(
		slog.String("operation", op),
		slog.String("op_id", uuid.NewString()),
	).With(attrs...)
	ctx = logging.WithLogger(ctx, logger)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	logger.DebugContext(ctx, "operation started")

	result, err := fn(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "operation failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	logger.DebugContext(ctx, "operation finished", slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// exec is call for operations without a result.
func exec(s *Service, ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...any) error {
	_, err := call(s, ctx, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, attrs...)
	return err
}

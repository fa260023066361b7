package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identitykit/auth-service/internal/core/domain"
	"github.com/identitykit/auth-service/internal/core/ports"
	"github.com/identitykit/auth-service/internal/core/token"
	"github.com/identitykit/auth-service/internal/metrics"
)

// AttemptLimiter abstracts the failed sign-in throttle (Redis).
type AttemptLimiter interface {
	TooMany(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

type authService struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	codec   *token.Codec
	limiter AttemptLimiter
	audit   ports.AuditSink
	log     zerolog.Logger
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	codec *token.Codec,
	limiter AttemptLimiter,
	audit ports.AuditSink,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		users:   users,
		roles:   roles,
		codec:   codec,
		limiter: limiter,
		audit:   audit,
		log:     log,
	}
}

// Register creates a new identity after both uniqueness checks pass. Nothing
// is written before the checks, and the identity plus its role references go
// to storage as one document, so an abandoned registration never leaves a
// user with zero roles behind.
func (s *authService) Register(ctx context.Context, username, email, password string, roleTags []string) (*domain.User, error) {
	// 1. Uniqueness preconditions, username first — the storage unique
	// indexes are the authority under concurrency, this is the fast path.
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		s.audit.Enqueue(auditEvent(username, domain.AuditActionSignUp, domain.AuditOutcomeConflict))
		return nil, domain.ErrUsernameTaken
	}

	inUse, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if inUse {
		s.audit.Enqueue(auditEvent(username, domain.AuditActionSignUp, domain.AuditOutcomeConflict))
		return nil, domain.ErrEmailTaken
	}

	// 2. Hash the password; the raw value is never stored.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	// 3. Resolve requested tags against the seeded role table. A missing
	// seed row is a data-integrity fault and aborts the operation.
	assigned := domain.RolesForTags(roleTags)
	roles := make([]domain.Role, 0, len(assigned))
	for _, name := range assigned {
		record, err := s.roles.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		roles = append(roles, record.Name)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. Single atomic write; a concurrent duplicate surfaces here as a
	// conflict error from the repository.
	created, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			s.audit.Enqueue(auditEvent(username, domain.AuditActionSignUp, domain.AuditOutcomeConflict))
		}
		return nil, err
	}

	for _, role := range created.Roles {
		metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	}
	s.audit.Enqueue(auditEvent(username, domain.AuditActionSignUp, domain.AuditOutcomeSuccess))

	s.log.Info().
		Str("username", created.Username).
		Int("roles", len(created.Roles)).
		Msg("user registered")

	return created, nil
}

// Login verifies credentials and issues a signed token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	start := time.Now()

	// 1. Attempt throttle — limiter errors are non-fatal, sign-in proceeds.
	locked, err := s.limiter.TooMany(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("attempt limiter check failed, proceeding")
	} else if locked {
		metrics.SignInsTotal.WithLabelValues("locked").Inc()
		metrics.SignInLockoutsTotal.Inc()
		s.audit.Enqueue(auditEvent(username, domain.AuditActionSignIn, domain.AuditOutcomeLocked))
		return "", nil, domain.ErrTooManyAttempts
	}

	// 2. Look up the identity. A missing user follows the same failure path
	// as a wrong password.
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, s.failLogin(ctx, username, start)
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	// 3. Constant-time hash comparison.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, s.failLogin(ctx, username, start)
	}

	// 4. Issue the token. Roles are not embedded: they are re-read from
	// storage on every authenticated request.
	signed, err := s.codec.Issue(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	if err := s.limiter.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset attempt counter")
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	metrics.SignInDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	s.audit.Enqueue(auditEvent(username, domain.AuditActionSignIn, domain.AuditOutcomeSuccess))

	s.log.Info().Str("username", user.Username).Msg("user signed in")

	return signed, user, nil
}

// ResolvePrincipal materializes the request-scoped principal for a validated
// token subject. Roles come from storage, not from the token, so a revoked
// role takes effect on the next request.
func (s *authService) ResolvePrincipal(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
	}, nil
}

func (s *authService) failLogin(ctx context.Context, username string, start time.Time) error {
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record sign-in failure")
	}
	metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
	metrics.SignInDuration.WithLabelValues("invalid_credentials").Observe(time.Since(start).Seconds())
	s.audit.Enqueue(auditEvent(username, domain.AuditActionSignIn, domain.AuditOutcomeInvalidCredentials))
	return domain.ErrInvalidCredentials
}

func auditEvent(username, action, outcome string) domain.AuditEvent {
	return domain.AuditEvent{
		Username: username,
		Action:   action,
		Outcome:  outcome,
		At:       time.Now().UTC(),
	}
}

package auth_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	"github.com/quizapp/go-auth"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// noopTestLogger swallows all output so tests stay quiet.
type noopTestLogger struct{}

func (noopTestLogger) Debug(string, ...any) {}
func (noopTestLogger) Info(string, ...any)  {}
func (noopTestLogger) Warn(string, ...any)  {}
func (noopTestLogger) Error(string, ...any) {}

// testIdentity is a plain value implementation of auth.Identity
type testIdentity struct {
	id    string
	email string
	role  string
}

func (t testIdentity) ID() string    { return t.id }
func (t testIdentity) Email() string { return t.email }
func (t testIdentity) Role() string  { return t.role }

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByEmail(ctx context.Context, email string) (auth.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

// MockRevocationStore implements auth.RevocationStore for testing
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Exists(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationStore) Insert(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockRevocationStore) DeleteExpiredBefore(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// memoryRevocationStore is a thread-safe in-memory deny-list for lifecycle
// tests that need real revocation semantics rather than canned answers.
type memoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{
		entries: map[string]time.Time{},
	}
}

func (s *memoryRevocationStore) Exists(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[jti]
	return ok, nil
}

func (s *memoryRevocationStore) Insert(ctx context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = expiresAt
	return nil
}

func (s *memoryRevocationStore) DeleteExpiredBefore(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for jti, exp := range s.entries {
		if exp.Before(now) {
			delete(s.entries, jti)
			removed++
		}
	}
	return removed, nil
}

// capturingActivitySink records every event it receives.
type capturingActivitySink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *capturingActivitySink) Record(ctx context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *capturingActivitySink) byType(eventType auth.ActivityEventType) []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []auth.ActivityEvent
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// MockUsers embeds the Users interface so only the methods a test exercises
// need canned answers. Calling anything else panics loudly.
type MockUsers struct {
	auth.Users
	mock.Mock
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPasswordResets embeds the PasswordResets interface, same pattern as
// MockUsers.
type MockPasswordResets struct {
	auth.PasswordResets
	mock.Mock
}

func (m *MockPasswordResets) CreateTx(ctx context.Context, tx bun.IDB, record *auth.PasswordResetToken, criteria ...repository.InsertCriteria) (*auth.PasswordResetToken, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResets) RedeemTx(ctx context.Context, tx bun.IDB, token string) (*auth.PasswordResetToken, error) {
	args := m.Called(ctx, tx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResets) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// memoryPasswordResets is a thread-safe in-memory reset-token store whose
// RedeemTx performs a real compare-and-set, so contended redemptions race
// for the single winning slot just like the SQL variant.
type memoryPasswordResets struct {
	auth.PasswordResets
	mu     sync.Mutex
	tokens map[string]*auth.PasswordResetToken
}

func newMemoryPasswordResets() *memoryPasswordResets {
	return &memoryPasswordResets{
		tokens: map[string]*auth.PasswordResetToken{},
	}
}

func (s *memoryPasswordResets) add(record *auth.PasswordResetToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[record.Token] = record
}

func (s *memoryPasswordResets) RedeemTx(ctx context.Context, tx bun.IDB, token string) (*auth.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.tokens[token]
	if !ok || record.Used || !record.ExpiresAt.After(time.Now()) {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"token": token})
	}
	record.Used = true
	redeemed := *record
	return &redeemed, nil
}

// MockRevokedTokens embeds the RevokedTokens interface.
type MockRevokedTokens struct {
	auth.RevokedTokens
	mock.Mock
}

func (m *MockRevokedTokens) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockRepositoryManager implements auth.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock

	// CommitErr, when set, is returned after the transaction callback
	// succeeds, standing in for a transaction that fails at commit time.
	CommitErr error
}

func (m *MockRepositoryManager) Users() auth.Users {
	args := m.Called()
	return args.Get(0).(auth.Users)
}

func (m *MockRepositoryManager) PasswordResets() auth.PasswordResets {
	args := m.Called()
	return args.Get(0).(auth.PasswordResets)
}

func (m *MockRepositoryManager) RevokedTokens() auth.RevokedTokens {
	args := m.Called()
	return args.Get(0).(auth.RevokedTokens)
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx executes the callback against a zero-value bun.Tx so handlers can
// drive their repository mocks. A non-nil canned error short-circuits the
// transaction without running the callback.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	var tx bun.Tx
	if err := f(ctx, tx); err != nil {
		return err
	}
	return m.CommitErr
}

// MockActivitySink implements auth.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event auth.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

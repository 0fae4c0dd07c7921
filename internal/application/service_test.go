package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EduardoFATECOU/sistema-login/internal/application"
	"github.com/EduardoFATECOU/sistema-login/internal/domain"
	"github.com/EduardoFATECOU/sistema-login/internal/ports"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
	byID    map[uuid.UUID]domain.User
}

func (f *fakeUsers) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[params.Email]; ok {
		return domain.User{}, domain.ErrDuplicateEmail
	}
	user := domain.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Active:       true,
		CreatedAt:    params.CreatedAt,
		UpdatedAt:    params.CreatedAt,
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) EmailTaken(_ context.Context, email string, excluding uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return false, nil
	}
	return user.ID != excluding, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, name, email string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if other, exists := f.byEmail[email]; exists && other.ID != id {
		return domain.ErrDuplicateEmail
	}
	delete(f.byEmail, user.Email)
	user.Name = name
	user.Email = email
	user.UpdatedAt = updatedAt
	f.byID[id] = user
	f.byEmail[email] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = updatedAt
	f.byID[id] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.LastLoginAt = &at
	f.byID[id] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, user := range f.byID {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUsers) CountActive(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, user := range f.byID {
		if user.Active {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) setActive(id uuid.UUID, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.byID[id]
	user.Active = active
	f.byID[id] = user
	f.byEmail[user.Email] = user
}

type fakeAttempts struct {
	mu       sync.Mutex
	items    []domain.LoginAttempt
	readErr  error
	writeErr error
}

func (f *fakeAttempts) Record(_ context.Context, attempt domain.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.items = append(f.items, attempt)
	return nil
}

func (f *fakeAttempts) CountFailures(_ context.Context, email, ipAddress string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	var n int64
	for _, a := range f.items {
		if a.Email == email && a.IPAddress == ipAddress && !a.Succeeded && a.AttemptedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type rememberRecord struct {
	userID    uuid.UUID
	expiresAt time.Time
}

type fakeTokens struct {
	mu    sync.Mutex
	items map[string]rememberRecord
}

func (f *fakeTokens) Create(_ context.Context, userID uuid.UUID, tokenHash string, _, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[tokenHash] = rememberRecord{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeTokens) Consume(_ context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.items[tokenHash]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	delete(f.items, tokenHash)
	if !rec.expiresAt.After(now) {
		return uuid.Nil, domain.ErrNotFound
	}
	return rec.userID, nil
}

func (f *fakeTokens) DeleteByHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, tokenHash)
	return nil
}

type fakeSessions struct {
	mu     sync.Mutex
	items  map[string]ports.SessionData
	nextID int
}

func (f *fakeSessions) Create(_ context.Context, data ports.SessionData, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("sess-%d", f.nextID)
	f.items[id] = data
	return id, nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*ports.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	copied := data
	return &copied, nil
}

func (f *fakeSessions) Save(_ context.Context, id string, data ports.SessionData, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[id] = data
	return nil
}

func (f *fakeSessions) Destroy(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeSessions) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	return ok
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(digest, password string) error {
	if digest != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fixture struct {
	service  *application.Service
	users    *fakeUsers
	attempts *fakeAttempts
	tokens   *fakeTokens
	sessions *fakeSessions
	now      time.Time
}

func defaultTestConfig() application.Config {
	return application.Config{
		SessionTimeout:   30 * time.Minute,
		RotationInterval: 5 * time.Minute,
		LockoutWindow:    15 * time.Minute,
		MaxLoginAttempts: 5,
		RememberLifetime: 30 * 24 * time.Hour,
	}
}

func newFixture() *fixture {
	return newFixtureWithConfig(defaultTestConfig())
}

func newFixtureWithConfig(cfg application.Config) *fixture {
	f := &fixture{
		users:    &fakeUsers{byEmail: map[string]domain.User{}, byID: map[uuid.UUID]domain.User{}},
		attempts: &fakeAttempts{},
		tokens:   &fakeTokens{items: map[string]rememberRecord{}},
		sessions: &fakeSessions{items: map[string]ports.SessionData{}},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = application.NewService(application.Dependencies{
		Config:         cfg,
		Users:          f.users,
		Attempts:       f.attempts,
		RememberTokens: f.tokens,
		Sessions:       f.sessions,
		Hasher:         fakeHasher{},
		Now:            func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) register(t *testing.T, name, email, password string) application.RegisterResponse {
	t.Helper()
	res, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return res
}

func (f *fixture) login(t *testing.T, email, password string) application.LoginResponse {
	t.Helper()
	res, err := f.service.Login(context.Background(), application.LoginRequest{
		Email:     email,
		Password:  password,
		IPAddress: "127.0.0.1",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return res
}

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	res := f.register(t, "Maria Silva", "Maria@Example.com", "secret1")
	if res.UserID == uuid.Nil {
		t.Fatalf("register returned empty user id")
	}
	if res.Redirect != "/login" {
		t.Fatalf("register redirect = %q", res.Redirect)
	}

	stored, err := f.users.GetByEmail(ctx, "maria@example.com")
	if err != nil {
		t.Fatalf("stored user not found under normalized email: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatalf("password stored in the clear")
	}
	if err := (fakeHasher{}).Compare(stored.PasswordHash, "secret1"); err != nil {
		t.Fatalf("stored hash does not verify original password")
	}

	loginRes := f.login(t, "maria@example.com", "secret1")
	if loginRes.SessionID == "" {
		t.Fatalf("login returned empty session id")
	}
	if loginRes.Redirect != "/dashboard" {
		t.Fatalf("login redirect = %q", loginRes.Redirect)
	}
	if !f.sessions.has(loginRes.SessionID) {
		t.Fatalf("session record missing after login")
	}

	if len(f.attempts.items) != 1 || !f.attempts.items[0].Succeeded {
		t.Fatalf("expected one successful ledger entry, got %+v", f.attempts.items)
	}

	user, err := f.users.GetByID(ctx, res.UserID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.LastLoginAt == nil || !user.LastLoginAt.Equal(f.now) {
		t.Fatalf("last login not touched: %v", user.LastLoginAt)
	}
}

func TestRegisterAccumulatesAllViolations(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:            "ab",
		Email:           "not-an-email",
		Password:        "12345",
		ConfirmPassword: "54321",
	})

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(verrs) != 4 {
		t.Fatalf("expected 4 accumulated violations, got %d: %v", len(verrs), verrs)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("validation errors should match ErrInvalidInput")
	}
}

func TestRegisterDuplicateEmailCreatesNoRecord(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")

	_, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:            "Other Maria",
		Email:           "MARIA@example.com",
		Password:        "secret2",
		ConfirmPassword: "secret2",
	})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(f.users.byID) != 1 {
		t.Fatalf("duplicate registration created a record")
	}
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")

	_, errUnknown := f.service.Login(context.Background(), application.LoginRequest{
		Email:     "ghost@example.com",
		Password:  "whatever",
		IPAddress: "127.0.0.1",
	})
	_, errWrongPass := f.service.Login(context.Background(), application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "wrong",
		IPAddress: "127.0.0.1",
	})

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) || !errors.Is(errWrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v / %v", errUnknown, errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrongPass)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	t.Parallel()

	f := newFixture()
	res := f.register(t, "Maria Silva", "maria@example.com", "secret1")
	f.users.setActive(res.UserID, false)

	_, err := f.service.Login(context.Background(), application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
	})
	if !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected inactive account, got %v", err)
	}
	if len(f.attempts.items) != 1 || f.attempts.items[0].Succeeded {
		t.Fatalf("inactive login must land in the ledger as a failure")
	}
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.service.Login(ctx, application.LoginRequest{
			Email:     "maria@example.com",
			Password:  "wrong",
			IPAddress: "10.0.0.9",
		})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i, err)
		}
	}

	// Correct password is rejected while the window holds.
	_, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "10.0.0.9",
	})
	var locked *domain.LockedOutError
	if !errors.As(err, &locked) {
		t.Fatalf("expected lockout, got %v", err)
	}
	if !errors.Is(err, domain.ErrLockedOut) {
		t.Fatalf("lockout error should match ErrLockedOut")
	}
	if !strings.Contains(locked.Error(), "minute") {
		t.Fatalf("lockout message should carry a wait hint: %q", locked.Error())
	}

	// A different address for the same email is not throttled.
	if _, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "192.168.1.2",
	}); err != nil {
		t.Fatalf("different address should not be locked: %v", err)
	}

	// The window elapsing releases the original address.
	f.advance(16 * time.Minute)
	if _, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "10.0.0.9",
	}); err != nil {
		t.Fatalf("lockout should expire with the window: %v", err)
	}
}

func TestLockoutCheckFailsOpen(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	f.attempts.readErr = errors.New("ledger down")

	if _, err := f.service.Login(context.Background(), application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
	}); err != nil {
		t.Fatalf("broken ledger read must not block login: %v", err)
	}
}

func TestLoginDestroysPriorSession(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")

	first := f.login(t, "maria@example.com", "secret1")
	res, err := f.service.Login(context.Background(), application.LoginRequest{
		Email:          "maria@example.com",
		Password:       "secret1",
		IPAddress:      "127.0.0.1",
		PriorSessionID: first.SessionID,
	})
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if res.SessionID == first.SessionID {
		t.Fatalf("login must mint a fresh session identifier")
	}
	if f.sessions.has(first.SessionID) {
		t.Fatalf("prior session survived login")
	}
}

func TestLoginRedirectTarget(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	ctx := context.Background()

	res, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
		Target:    "/users",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Redirect != "/users" {
		t.Fatalf("expected stored target, got %q", res.Redirect)
	}

	res, err = f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
		Target:    "//evil.example.com/phish",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Redirect != "/dashboard" {
		t.Fatalf("scheme-relative target must fall back to landing, got %q", res.Redirect)
	}
}

func TestSessionIdleTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")
	ctx := context.Background()

	f.advance(29 * time.Minute)
	if _, err := f.service.Authenticate(ctx, res.SessionID); err != nil {
		t.Fatalf("session should still be live inside the timeout: %v", err)
	}

	f.advance(31 * time.Minute)
	_, err := f.service.Authenticate(ctx, res.SessionID)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if f.sessions.has(res.SessionID) {
		t.Fatalf("expired session record should be destroyed")
	}

	// Expired means expired for good: the identifier cannot come back.
	if _, err := f.service.Authenticate(ctx, res.SessionID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("destroyed session should be anonymous, got %v", err)
	}
}

func TestSessionActivityRefreshPushesTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")
	ctx := context.Background()

	id := res.SessionID
	for i := 0; i < 4; i++ {
		f.advance(20 * time.Minute)
		sess, err := f.service.Authenticate(ctx, id)
		if err != nil {
			t.Fatalf("refresh %d failed: %v", i, err)
		}
		id = sess.ID
	}
}

func TestSessionRotation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")
	ctx := context.Background()

	f.advance(2 * time.Minute)
	sess, err := f.service.Authenticate(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if sess.Rotated || sess.ID != res.SessionID {
		t.Fatalf("rotation fired inside the interval")
	}

	f.advance(4 * time.Minute)
	sess, err = f.service.Authenticate(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if !sess.Rotated {
		t.Fatalf("expected identifier rotation after the interval")
	}
	if sess.ID == res.SessionID {
		t.Fatalf("rotated session kept the old identifier")
	}
	if f.sessions.has(res.SessionID) {
		t.Fatalf("old identifier must die on rotation")
	}
	if sess.Data.UserID == uuid.Nil || sess.Data.LoginTime.IsZero() {
		t.Fatalf("rotation must carry session state over")
	}
}

func TestSessionOfDeactivatedUserIsDestroyed(t *testing.T) {
	t.Parallel()

	f := newFixture()
	reg := f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")

	f.users.setActive(reg.UserID, false)
	_, err := f.service.Authenticate(context.Background(), res.SessionID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for deactivated user, got %v", err)
	}
	if f.sessions.has(res.SessionID) {
		t.Fatalf("session of deactivated user should be destroyed")
	}
}

func TestKeepAliveReportsDeadline(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")

	f.advance(10 * time.Minute)
	_, deadline, err := f.service.KeepAlive(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("keep-alive failed: %v", err)
	}
	want := f.now.Add(30 * time.Minute)
	if !deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", deadline, want)
	}
}

func TestRememberTokenResumeIsSingleUse(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	ctx := context.Background()

	res, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
		Remember:  true,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.RememberToken == "" {
		t.Fatalf("expected remember token on opt-in login")
	}
	if len(f.tokens.items) != 1 {
		t.Fatalf("expected one stored token record")
	}
	for hash := range f.tokens.items {
		if hash == res.RememberToken {
			t.Fatalf("raw token must never be stored")
		}
	}

	// Session gone, token resumes and gets replaced.
	if err := f.sessions.Destroy(ctx, res.SessionID); err != nil {
		t.Fatalf("destroy session: %v", err)
	}
	resumed, err := f.service.ResumeFromRememberToken(ctx, res.RememberToken)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if resumed.SessionID == "" || !f.sessions.has(resumed.SessionID) {
		t.Fatalf("resume did not establish a session")
	}
	if resumed.RememberToken == "" || resumed.RememberToken == res.RememberToken {
		t.Fatalf("resume must rotate the token")
	}

	// Replaying the burned token is a hard failure.
	if _, err := f.service.ResumeFromRememberToken(ctx, res.RememberToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("replayed token should be unauthorized, got %v", err)
	}
}

func TestRememberTokenExpires(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	ctx := context.Background()

	res, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
		Remember:  true,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	f.advance(31 * 24 * time.Hour)
	if _, err := f.service.ResumeFromRememberToken(ctx, res.RememberToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expired token should be unauthorized, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	ctx := context.Background()

	res, err := f.service.Login(ctx, application.LoginRequest{
		Email:     "maria@example.com",
		Password:  "secret1",
		IPAddress: "127.0.0.1",
		Remember:  true,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	redirect, err := f.service.Logout(ctx, res.SessionID, res.RememberToken)
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if redirect != "/login?logout=1" {
		t.Fatalf("logout redirect = %q", redirect)
	}
	if f.sessions.has(res.SessionID) {
		t.Fatalf("session survived logout")
	}
	if len(f.tokens.items) != 0 {
		t.Fatalf("remember token survived logout")
	}

	// Anonymous logout is not an error.
	if _, err := f.service.Logout(ctx, "", ""); err != nil {
		t.Fatalf("anonymous logout failed: %v", err)
	}
	if _, err := f.service.Authenticate(ctx, res.SessionID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("logged-out session should be anonymous, got %v", err)
	}
}

func TestUpdateProfileWrongCurrentPasswordLeavesHash(t *testing.T) {
	t.Parallel()

	f := newFixture()
	reg := f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")
	ctx := context.Background()

	sess, err := f.service.Authenticate(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	before, _ := f.users.GetByID(ctx, reg.UserID)
	_, err = f.service.UpdateProfile(ctx, sess.ID, sess.Data, application.UpdateProfileRequest{
		Name:               "Maria Silva",
		Email:              "maria@example.com",
		CurrentPassword:    "wrong",
		NewPassword:        "newsecret",
		ConfirmNewPassword: "newsecret",
	})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	after, _ := f.users.GetByID(ctx, reg.UserID)
	if after.PasswordHash != before.PasswordHash {
		t.Fatalf("stored hash changed despite failed verification")
	}
}

func TestUpdateProfileChangesIdentityAndPassword(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	res := f.login(t, "maria@example.com", "secret1")
	ctx := context.Background()

	sess, err := f.service.Authenticate(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	profile, err := f.service.UpdateProfile(ctx, sess.ID, sess.Data, application.UpdateProfileRequest{
		Name:               "Maria Souza",
		Email:              "Maria.Souza@Example.com",
		CurrentPassword:    "secret1",
		NewPassword:        "newsecret",
		ConfirmNewPassword: "newsecret",
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if profile.Name != "Maria Souza" || profile.Email != "maria.souza@example.com" {
		t.Fatalf("profile not updated: %+v", profile)
	}

	// Session identity follows the change without a re-login.
	refreshed, err := f.service.Authenticate(ctx, sess.ID)
	if err != nil {
		t.Fatalf("authenticate after update failed: %v", err)
	}
	if refreshed.Data.Name != "Maria Souza" || refreshed.Data.Email != "maria.souza@example.com" {
		t.Fatalf("session identity stale: %+v", refreshed.Data)
	}

	// Old password is dead, new one works.
	if _, err := f.service.Login(ctx, application.LoginRequest{
		Email: "maria.souza@example.com", Password: "secret1", IPAddress: "127.0.0.1",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should fail, got %v", err)
	}
	f.login(t, "maria.souza@example.com", "newsecret")
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.register(t, "Maria Silva", "maria@example.com", "secret1")
	f.register(t, "Joao Santos", "joao@example.com", "secret2")
	res := f.login(t, "joao@example.com", "secret2")
	ctx := context.Background()

	sess, err := f.service.Authenticate(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	_, err = f.service.UpdateProfile(ctx, sess.ID, sess.Data, application.UpdateProfileRequest{
		Name:  "Joao Santos",
		Email: "maria@example.com",
	})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	// Keeping your own address is never a conflict.
	if _, err := f.service.UpdateProfile(ctx, sess.ID, sess.Data, application.UpdateProfileRequest{
		Name:  "Joao Santos Jr",
		Email: "joao@example.com",
	}); err != nil {
		t.Fatalf("own email should not conflict: %v", err)
	}
}

func TestListUsersAndDashboard(t *testing.T) {
	t.Parallel()

	f := newFixture()
	reg := f.register(t, "Maria Silva", "maria@example.com", "secret1")
	other := f.register(t, "Joao Santos", "joao@example.com", "secret2")
	f.users.setActive(other.UserID, false)
	res := f.login(t, "maria@example.com", "secret1")
	ctx := context.Background()

	sess, err := f.service.Authenticate(ctx, res.SessionID)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	users, err := f.service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.ID != reg.UserID && u.ID != other.UserID {
			t.Fatalf("unexpected user in listing: %+v", u)
		}
	}

	dash, err := f.service.Dashboard(ctx, sess.Data)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dash.ActiveUsers != 1 {
		t.Fatalf("expected 1 active user, got %d", dash.ActiveUsers)
	}
	if dash.Profile.ID != reg.UserID {
		t.Fatalf("dashboard profile belongs to wrong user")
	}
}

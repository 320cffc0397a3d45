// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancanh/havenest/internal/platform/apperr"
	"github.com/trancanh/havenest/internal/platform/mail"
	"github.com/trancanh/havenest/internal/platform/sec"
	"github.com/trancanh/havenest/internal/users/auth"
)

// # Test Doubles

// fakeAccountRepository is an in-memory AccountRepository keyed by account id.
type fakeAccountRepository struct {
	mutex    sync.Mutex
	accounts map[string]*auth.Account
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: map[string]*auth.Account{}}
}

func (repository *fakeAccountRepository) clone(account *auth.Account) *auth.Account {
	copied := *account
	return &copied
}

func (repository *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	if account, ok := repository.accounts[id]; ok {
		return repository.clone(account), nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	for _, account := range repository.accounts {
		if account.Email == email {
			return repository.clone(account), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*auth.Account, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	for _, account := range repository.accounts {
		if account.Username == username {
			return repository.clone(account), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeAccountRepository) Create(_ context.Context, account *auth.Account) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	for _, existing := range repository.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return apperr.Conflict("Username or email is already taken")
		}
	}
	repository.accounts[account.ID] = repository.clone(account)
	return nil
}

func (repository *fakeAccountRepository) UpdateProfile(_ context.Context, account *auth.Account) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	for id, existing := range repository.accounts {
		if id != account.ID && existing.Username == account.Username {
			return apperr.Conflict("Username is taken")
		}
	}
	repository.accounts[account.ID] = repository.clone(account)
	return nil
}

func (repository *fakeAccountRepository) UpdatePassword(_ context.Context, accountID, newHash string) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	account, ok := repository.accounts[accountID]
	if !ok {
		return apperr.NotFound("User")
	}
	account.PasswordHash = newHash
	return nil
}

func (repository *fakeAccountRepository) SetResetCode(_ context.Context, accountID, resetCode string) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	account, ok := repository.accounts[accountID]
	if !ok {
		return apperr.NotFound("User")
	}
	account.ResetCode = resetCode
	return nil
}

func (repository *fakeAccountRepository) ConsumeResetCode(_ context.Context, resetCode string) (*auth.Account, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	for _, account := range repository.accounts {
		if account.ResetCode != "" && account.ResetCode == resetCode {
			account.ResetCode = ""
			return repository.clone(account), nil
		}
	}
	return nil, apperr.NotFound("Reset code")
}

// fakeConsumedTokens mimics the Redis SET NX ledger.
type fakeConsumedTokens struct {
	mutex sync.Mutex
	seen  map[string]bool
}

func newFakeConsumedTokens() *fakeConsumedTokens {
	return &fakeConsumedTokens{seen: map[string]bool{}}
}

func (ledger *fakeConsumedTokens) MarkConsumed(_ context.Context, tokenID string, _ time.Duration) (bool, error) {
	ledger.mutex.Lock()
	defer ledger.mutex.Unlock()
	if ledger.seen[tokenID] {
		return false, nil
	}
	ledger.seen[tokenID] = true
	return true, nil
}

// recordingSender captures outgoing mail instead of delivering it.
type recordingSender struct {
	mutex    sync.Mutex
	messages []mail.Message
	fail     bool
}

func (sender *recordingSender) Send(_ context.Context, message mail.Message) error {
	sender.mutex.Lock()
	defer sender.mutex.Unlock()
	if sender.fail {
		return errors.New("smtp: connection refused")
	}
	sender.messages = append(sender.messages, message)
	return nil
}

func (sender *recordingSender) last(t *testing.T) mail.Message {
	t.Helper()
	sender.mutex.Lock()
	defer sender.mutex.Unlock()
	require.NotEmpty(t, sender.messages)
	return sender.messages[len(sender.messages)-1]
}

// # Fixture

type fixture struct {
	service  *auth.Service
	accounts *fakeAccountRepository
	tokens   *fakeConsumedTokens
	sender   *recordingSender
	codec    *sec.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := sec.NewTokenService("unit-test-secret", "havenest.test")
	require.NoError(t, err)

	accounts := newFakeAccountRepository()
	tokens := newFakeConsumedTokens()
	sender := &recordingSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := auth.NewService(
		accounts, tokens, codec, sender,
		"https://app.havenest.test", "support@havenest.test", logger,
	)

	return &fixture{
		service:  service,
		accounts: accounts,
		tokens:   tokens,
		sender:   sender,
		codec:    codec,
	}
}

// tokenFromLink extracts the last path segment of the first href in a
// lifecycle email body.
func tokenFromLink(t *testing.T, htmlBody string) string {
	t.Helper()
	start := strings.Index(htmlBody, `href="`)
	require.GreaterOrEqual(t, start, 0)
	rest := htmlBody[start+len(`href="`):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)
	link := rest[:end]
	segments := strings.Split(link, "/")
	return segments[len(segments)-1]
}

// registeredAccount drives the full pre-register/register flow and returns
// the resulting session.
func registeredAccount(t *testing.T, f *fixture, email, password string) *auth.AuthSession {
	t.Helper()

	sent, err := f.service.PreRegister(context.Background(), email, password)
	require.NoError(t, err)
	require.True(t, sent)

	activationToken := tokenFromLink(t, f.sender.last(t).HTMLBody)

	session, err := f.service.Register(context.Background(), activationToken)
	require.NoError(t, err)
	return session
}

// # Registration

func TestPreRegisterSendsActivationEmail(t *testing.T) {
	f := newFixture(t)

	sent, err := f.service.PreRegister(context.Background(), " Buyer@Havenest.Test ", "hunter2so")
	require.NoError(t, err)
	assert.True(t, sent)

	message := f.sender.last(t)
	assert.Equal(t, "buyer@havenest.test", message.To)
	assert.Equal(t, mail.ActivationSubject, message.Subject)

	claims, err := f.codec.VerifyRegistration(tokenFromLink(t, message.HTMLBody))
	require.NoError(t, err)
	assert.Equal(t, "buyer@havenest.test", claims.Email)
	assert.Equal(t, "hunter2so", claims.Password)
	assert.NotEmpty(t, claims.ID)

	// No account exists until the token is redeemed.
	_, err = f.accounts.FindByEmail(context.Background(), "buyer@havenest.test")
	assert.True(t, apperr.IsNotFound(err))
}

func TestPreRegisterRejectsTakenEmail(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	_, err := f.service.PreRegister(context.Background(), "buyer@havenest.test", "another1")
	assert.True(t, apperr.IsConflict(err))
}

func TestPreRegisterSoftFailsOnMailOutage(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true

	sent, err := f.service.PreRegister(context.Background(), "buyer@havenest.test", "hunter2so")
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestRegisterCreatesAccountWithDefaults(t *testing.T) {
	f := newFixture(t)

	session := registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	require.NotNil(t, session.Account)
	assert.Equal(t, "buyer@havenest.test", session.Account.Email)
	assert.Len(t, session.Account.Username, auth.UsernameLength)
	assert.Equal(t, []sec.UserRole{sec.RoleBuyer}, session.Account.Roles)
	assert.Empty(t, session.Account.PasswordHash)
	assert.Empty(t, session.Account.ResetCode)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.RefreshToken)

	// The stored hash verifies against the original password.
	stored, err := f.accounts.FindByEmail(context.Background(), "buyer@havenest.test")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("hunter2so", stored.PasswordHash))
}

func TestRegisterRejectsReplayedToken(t *testing.T) {
	f := newFixture(t)

	sent, err := f.service.PreRegister(context.Background(), "buyer@havenest.test", "hunter2so")
	require.NoError(t, err)
	require.True(t, sent)
	activationToken := tokenFromLink(t, f.sender.last(t).HTMLBody)

	_, err = f.service.Register(context.Background(), activationToken)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), activationToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

func TestRegisterRejectsGarbageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), "not.a.jwt")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

// # Login

func TestLoginIssuesDistinctTokenPair(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	session, err := f.service.Login(context.Background(), "buyer@havenest.test", "hunter2so")
	require.NoError(t, err)

	sessionClaims, err := f.codec.VerifySession(session.Token)
	require.NoError(t, err)
	refreshClaims, err := f.codec.VerifySession(session.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, sessionClaims.UserID, refreshClaims.UserID)
	assert.True(t, refreshClaims.ExpiresAt.After(sessionClaims.ExpiresAt.Time))
	assert.Empty(t, session.Account.PasswordHash)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	_, wrongPassword := f.service.Login(context.Background(), "buyer@havenest.test", "wrong-pass")
	_, unknownEmail := f.service.Login(context.Background(), "ghost@havenest.test", "hunter2so")

	first := apperr.As(wrongPassword)
	second := apperr.As(unknownEmail)
	require.NotNil(t, first)
	require.NotNil(t, second)

	// Same status and message for both failure modes.
	assert.Equal(t, first.HTTPStatus, second.HTTPStatus)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, 401, first.HTTPStatus)

	// Failed attempts mutate nothing: the real credentials still work.
	_, err := f.service.Login(context.Background(), "buyer@havenest.test", "hunter2so")
	assert.NoError(t, err)
}

// # Refresh

func TestRefreshSessionRotatesPair(t *testing.T) {
	f := newFixture(t)
	session := registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	refreshed, err := f.service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.Equal(t, session.Account.ID, refreshed.Account.ID)
}

func TestRefreshSessionRejectsBadToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RefreshSession(context.Background(), "bogus")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 403, appError.HTTPStatus)
	assert.Equal(t, "Refresh token failed", appError.Message)
}

func TestRefreshSessionRejectsDeletedAccount(t *testing.T) {
	f := newFixture(t)
	session := registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	f.accounts.mutex.Lock()
	f.accounts.accounts = map[string]*auth.Account{}
	f.accounts.mutex.Unlock()

	_, err := f.service.RefreshSession(context.Background(), session.RefreshToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 403, appError.HTTPStatus)
}

// # Password Recovery

func TestForgotPasswordStoresCodeAndMailsToken(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	sent, err := f.service.ForgotPassword(context.Background(), "buyer@havenest.test")
	require.NoError(t, err)
	assert.True(t, sent)

	message := f.sender.last(t)
	assert.Equal(t, mail.ResetSubject, message.Subject)

	claims, err := f.codec.VerifyReset(tokenFromLink(t, message.HTMLBody))
	require.NoError(t, err)
	assert.Len(t, claims.ResetCode, auth.ResetCodeLength)

	stored, err := f.accounts.FindByEmail(context.Background(), "buyer@havenest.test")
	require.NoError(t, err)
	assert.Equal(t, claims.ResetCode, stored.ResetCode)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ForgotPassword(context.Background(), "ghost@havenest.test")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAccessAccountConsumesCodeOnce(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	sent, err := f.service.ForgotPassword(context.Background(), "buyer@havenest.test")
	require.NoError(t, err)
	require.True(t, sent)
	resetToken := tokenFromLink(t, f.sender.last(t).HTMLBody)

	session, err := f.service.AccessAccount(context.Background(), resetToken)
	require.NoError(t, err)
	assert.Empty(t, session.Account.ResetCode)

	// The window is closed: the same link cannot be redeemed again.
	_, err = f.service.AccessAccount(context.Background(), resetToken)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAccessAccountConcurrentRedemptionHasOneWinner(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	sent, err := f.service.ForgotPassword(context.Background(), "buyer@havenest.test")
	require.NoError(t, err)
	require.True(t, sent)
	resetToken := tokenFromLink(t, f.sender.last(t).HTMLBody)

	results := make(chan error, 2)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < 2; i++ {
		go func() {
			start.Wait()
			_, err := f.service.AccessAccount(context.Background(), resetToken)
			results <- err
		}()
	}
	start.Done()

	var successes, failures int
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			failures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
}

func TestAccessAccountRejectsEmptyCodeClaim(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")

	// A token legitimately signed but carrying an empty code must not match
	// accounts that never opened a reset window.
	emptyCodeToken, err := f.codec.SignReset("", time.Hour)
	require.NoError(t, err)

	_, err = f.service.AccessAccount(context.Background(), emptyCodeToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

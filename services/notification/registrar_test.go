package notification

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"haulaway/backend"
	"haulaway/models"
	"haulaway/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type registerBackendStub struct {
	mu          sync.Mutex
	calls       []string
	legacyCalls []string
	err         error
	legacyErr   error
}

func (s *registerBackendStub) RegisterToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, token)
	return s.err
}

func (s *registerBackendStub) RegisterTokenLegacy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacyCalls = append(s.legacyCalls, token)
	return s.legacyErr
}

func (s *registerBackendStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *registerBackendStub) legacyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.legacyCalls)
}

func (s *registerBackendStub) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *registerBackendStub) GetQuote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	return nil, nil
}

func (s *registerBackendStub) GetPaymentByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *registerBackendStub) GetPaymentByReference(ctx context.Context, referenceCode string) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *registerBackendStub) UpdateJobStatus(ctx context.Context, paymentID string, status models.OrderStatus) error {
	return nil
}

func (s *registerBackendStub) UploadConfirmationImage(ctx context.Context, paymentID, url string) error {
	return nil
}

func (s *registerBackendStub) GetTrucks(ctx context.Context) ([]models.Vehicle, error) {
	return nil, nil
}

func (s *registerBackendStub) SubmitRating(ctx context.Context, orderID string, rating int) error {
	return nil
}

type tokenSessions struct {
	mu    sync.Mutex
	token string
}

func (s *tokenSessions) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &session.Session{SessionID: sessionID, Token: s.token}, nil
}

func (s *tokenSessions) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func newTestRegistrar(bk *registerBackendStub, authToken string) (*TokenRegistrar, *session.Context) {
	sess := session.NewContext("s1", &tokenSessions{token: authToken})
	r := NewTokenRegistrar(bk, sess, zap.NewNop())
	r.BaseDelay = time.Millisecond
	return r, sess
}

func TestRegistrar_Success(t *testing.T) {
	bk := &registerBackendStub{}
	r, sess := newTestRegistrar(bk, "auth-tok")

	r.Register(context.Background(), "fcm-token-1")

	assert.Equal(t, 1, bk.callCount())
	assert.Equal(t, 0, bk.legacyCount())
	assert.Equal(t, "fcm-token-1", sess.PushToken())
}

func TestRegistrar_LegacyShapeOn500(t *testing.T) {
	bk := &registerBackendStub{err: &backend.StatusError{Op: "POST /api/devices/token", Code: http.StatusInternalServerError}}
	r, sess := newTestRegistrar(bk, "auth-tok")

	r.Register(context.Background(), "fcm-token-1")

	require.Equal(t, 1, bk.legacyCount())
	assert.Equal(t, "fcm-token-1", bk.legacyCalls[0])
	assert.Equal(t, "fcm-token-1", sess.PushToken())
}

func TestRegistrar_Non500DoesNotTryLegacyShape(t *testing.T) {
	bk := &registerBackendStub{err: &backend.StatusError{Op: "POST /api/devices/token", Code: http.StatusBadRequest}}
	r, _ := newTestRegistrar(bk, "auth-tok")

	r.Register(context.Background(), "fcm-token-1")
	r.Close()

	assert.Equal(t, 0, bk.legacyCount())
}

func TestRegistrar_BacksOffAndGivesUpAfterMaxAttempts(t *testing.T) {
	bk := &registerBackendStub{err: &backend.StatusError{Op: "POST /api/devices/token", Code: http.StatusBadRequest}}
	r, sess := newTestRegistrar(bk, "auth-tok")

	r.Register(context.Background(), "fcm-token-1")

	// Retries fire at 2ms and 4ms with the shrunk base delay; give them room.
	assert.Eventually(t, func() bool { return bk.callCount() == maxRegisterAttempts },
		time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, maxRegisterAttempts, bk.callCount())
	assert.Empty(t, sess.PushToken())

	// A repeat trigger for the same exhausted token stays quiet.
	r.Register(context.Background(), "fcm-token-1")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, maxRegisterAttempts, bk.callCount())
}

func TestRegistrar_NewTokenResetsAttempts(t *testing.T) {
	bk := &registerBackendStub{err: &backend.StatusError{Op: "POST /api/devices/token", Code: http.StatusBadRequest}}
	r, sess := newTestRegistrar(bk, "auth-tok")

	r.Register(context.Background(), "fcm-token-1")
	assert.Eventually(t, func() bool { return bk.callCount() == maxRegisterAttempts },
		time.Second, 5*time.Millisecond)

	bk.mu.Lock()
	bk.err = nil
	bk.mu.Unlock()
	r.Register(context.Background(), "fcm-token-2")

	assert.Eventually(t, func() bool { return sess.PushToken() == "fcm-token-2" },
		time.Second, 5*time.Millisecond)
}

func TestRegistrar_UnauthenticatedIsNoOp(t *testing.T) {
	bk := &registerBackendStub{}
	r, _ := newTestRegistrar(bk, "")

	r.Register(context.Background(), "fcm-token-1")

	assert.Equal(t, 0, bk.callCount())
}

// Signed-out triggers must not consume the retry budget: after any number
// of them, the first trigger following sign-in still reaches the backend.
func TestRegistrar_SignedOutTriggersDoNotExhaustAttempts(t *testing.T) {
	bk := &registerBackendStub{}
	creds := &tokenSessions{}
	sess := session.NewContext("s1", creds)
	r := NewTokenRegistrar(bk, sess, zap.NewNop())
	r.BaseDelay = time.Millisecond

	for i := 0; i < maxRegisterAttempts; i++ {
		r.Register(context.Background(), "fcm-token-1")
	}
	require.Equal(t, 0, bk.callCount())

	creds.set("auth-tok")
	r.Register(context.Background(), "fcm-token-1")

	assert.Equal(t, 1, bk.callCount())
	assert.Equal(t, "fcm-token-1", sess.PushToken())
}

func TestRegistrar_EmptyTokenIsNoOp(t *testing.T) {
	bk := &registerBackendStub{}
	r, _ := newTestRegistrar(bk, "auth-tok")

	r.Register(context.Background(), "")

	assert.Equal(t, 0, bk.callCount())
}

func TestRegistrar_CloseCancelsScheduledRetry(t *testing.T) {
	bk := &registerBackendStub{err: &backend.StatusError{Op: "POST /api/devices/token", Code: http.StatusBadRequest}}
	r, _ := newTestRegistrar(bk, "auth-tok")
	r.BaseDelay = 20 * time.Millisecond

	r.Register(context.Background(), "fcm-token-1")
	require.Equal(t, 1, bk.callCount())

	r.Close()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, bk.callCount())
}

package proof

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"haulaway/backend"
	"haulaway/models"
	"haulaway/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type proofBackendStub struct {
	record    *models.PaymentRecord
	lookupErr error

	patches  []string
	patchErr error
}

func (s *proofBackendStub) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *proofBackendStub) GetQuote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	return nil, nil
}

func (s *proofBackendStub) GetPaymentByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.record, nil
}

func (s *proofBackendStub) GetPaymentByReference(ctx context.Context, referenceCode string) (*models.PaymentRecord, error) {
	return s.record, nil
}

func (s *proofBackendStub) UpdateJobStatus(ctx context.Context, paymentID string, status models.OrderStatus) error {
	return nil
}

func (s *proofBackendStub) UploadConfirmationImage(ctx context.Context, paymentID, url string) error {
	s.patches = append(s.patches, paymentID+" "+url)
	return s.patchErr
}

func (s *proofBackendStub) GetTrucks(ctx context.Context) ([]models.Vehicle, error) { return nil, nil }

func (s *proofBackendStub) SubmitRating(ctx context.Context, orderID string, rating int) error {
	return nil
}

func (s *proofBackendStub) RegisterToken(ctx context.Context, token string) error { return nil }

func (s *proofBackendStub) RegisterTokenLegacy(ctx context.Context, token string) error { return nil }

type memProofStore struct {
	urls   map[string]string
	getErr error
	setErr error
}

func newMemProofStore() *memProofStore {
	return &memProofStore{urls: make(map[string]string)}
}

func (m *memProofStore) GetProofURL(ctx context.Context, orderID string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.urls[orderID], nil
}

func (m *memProofStore) SetProofURL(ctx context.Context, orderID, url string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.urls[orderID] = url
	return nil
}

type storageStub struct {
	url string
	err error
}

func (s *storageStub) Upload(ctx context.Context, file io.Reader, destFolder string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return s.url, "public-id", nil
}

func (s *storageStub) Delete(ctx context.Context, publicID string) error { return nil }

type noSessions struct{}

func (noSessions) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	return nil, errors.New("no session store in test")
}

func newTestResolver(bk *proofBackendStub, st *storageStub) (*Resolver, *memProofStore, *session.Context) {
	store := newMemProofStore()
	sess := session.NewContext("s1", noSessions{})
	return NewResolver(bk, store, st, zap.NewNop()), store, sess
}

func TestResolve_Priority(t *testing.T) {
	rec := &models.PaymentRecord{
		ConfirmationURL:    "https://cdn.example/primary.jpg",
		ConfirmationURLAlt: "https://cdn.example/legacy.jpg",
	}

	t.Run("explicit value wins", func(t *testing.T) {
		r, _, sess := newTestResolver(&proofBackendStub{}, &storageStub{})
		url, ok := r.Resolve(context.Background(), sess, "ord-1", "https://cdn.example/explicit.jpg", rec)
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example/explicit.jpg", url)
	})

	t.Run("primary record field beats legacy", func(t *testing.T) {
		r, _, sess := newTestResolver(&proofBackendStub{}, &storageStub{})
		url, ok := r.Resolve(context.Background(), sess, "ord-1", "", rec)
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example/primary.jpg", url)
	})

	t.Run("legacy field when primary empty", func(t *testing.T) {
		r, _, sess := newTestResolver(&proofBackendStub{}, &storageStub{})
		url, ok := r.Resolve(context.Background(), sess, "ord-1", "", &models.PaymentRecord{
			ConfirmationURLAlt: "https://cdn.example/legacy.jpg",
		})
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example/legacy.jpg", url)
	})

	t.Run("session cache when record carries nothing", func(t *testing.T) {
		r, _, sess := newTestResolver(&proofBackendStub{}, &storageStub{})
		sess.SetProofURL("ord-1", "https://cdn.example/session.jpg")
		url, ok := r.Resolve(context.Background(), sess, "ord-1", "", &models.PaymentRecord{})
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example/session.jpg", url)
	})

	t.Run("persisted cache is the last tier", func(t *testing.T) {
		r, store, sess := newTestResolver(&proofBackendStub{}, &storageStub{})
		store.urls["ord-1"] = "https://cdn.example/persisted.jpg"
		url, ok := r.Resolve(context.Background(), sess, "ord-1", "", nil)
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example/persisted.jpg", url)
	})

	t.Run("nothing resolves", func(t *testing.T) {
		r, store, sess := newTestResolver(&proofBackendStub{}, &storageStub{})
		url, ok := r.Resolve(context.Background(), sess, "ord-1", "", nil)
		assert.False(t, ok)
		assert.Empty(t, url)
		assert.Empty(t, store.urls)
	})
}

func TestResolve_WritesBackToBothCaches(t *testing.T) {
	r, store, sess := newTestResolver(&proofBackendStub{}, &storageStub{})

	url, ok := r.Resolve(context.Background(), sess, "ord-1", "", &models.PaymentRecord{
		ConfirmationURL: "https://cdn.example/primary.jpg",
	})

	require.True(t, ok)
	cached, found := sess.ProofURL("ord-1")
	assert.True(t, found)
	assert.Equal(t, url, cached)
	assert.Equal(t, url, store.urls["ord-1"])
}

func TestUpload(t *testing.T) {
	bk := &proofBackendStub{}
	r, store, sess := newTestResolver(bk, &storageStub{url: "https://cdn.example/new.jpg"})

	url, err := r.Upload(context.Background(), sess, "ord-1", "pay-1", strings.NewReader("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/new.jpg", url)
	require.Len(t, bk.patches, 1)
	assert.Equal(t, "pay-1 https://cdn.example/new.jpg", bk.patches[0])
	assert.Equal(t, url, store.urls["ord-1"])
}

func TestUpload_ResolvesPaymentIDByOrder(t *testing.T) {
	bk := &proofBackendStub{record: &models.PaymentRecord{PaymentID: "pay-7"}}
	r, _, sess := newTestResolver(bk, &storageStub{url: "https://cdn.example/new.jpg"})

	_, err := r.Upload(context.Background(), sess, "ord-1", "", strings.NewReader("jpeg-bytes"))

	require.NoError(t, err)
	require.Len(t, bk.patches, 1)
	assert.Equal(t, "pay-7 https://cdn.example/new.jpg", bk.patches[0])
}

func TestUpload_FailureKeepsCachedProof(t *testing.T) {
	bk := &proofBackendStub{patchErr: backend.ErrNotFound}
	r, store, sess := newTestResolver(bk, &storageStub{url: "https://cdn.example/new.jpg"})
	sess.SetProofURL("ord-1", "https://cdn.example/old.jpg")
	store.urls["ord-1"] = "https://cdn.example/old.jpg"

	_, err := r.Upload(context.Background(), sess, "ord-1", "pay-1", strings.NewReader("jpeg-bytes"))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "record patch", ue.Step)

	cached, _ := sess.ProofURL("ord-1")
	assert.Equal(t, "https://cdn.example/old.jpg", cached)
	assert.Equal(t, "https://cdn.example/old.jpg", store.urls["ord-1"])
}

func TestUpload_StorageFailure(t *testing.T) {
	bk := &proofBackendStub{}
	r, _, sess := newTestResolver(bk, &storageStub{err: errors.New("upstream rejected")})

	_, err := r.Upload(context.Background(), sess, "ord-1", "pay-1", strings.NewReader("jpeg-bytes"))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "file-host upload", ue.Step)
	assert.Len(t, bk.patches, 0)
}

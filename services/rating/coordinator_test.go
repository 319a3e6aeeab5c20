package rating

import (
	"context"
	"testing"

	"haulaway/backend"
	"haulaway/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ratingBackendStub struct {
	submissions []int
	err         error
}

func (s *ratingBackendStub) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *ratingBackendStub) GetQuote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	return nil, nil
}

func (s *ratingBackendStub) GetPaymentByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *ratingBackendStub) GetPaymentByReference(ctx context.Context, referenceCode string) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *ratingBackendStub) UpdateJobStatus(ctx context.Context, paymentID string, status models.OrderStatus) error {
	return nil
}

func (s *ratingBackendStub) UploadConfirmationImage(ctx context.Context, paymentID, url string) error {
	return nil
}

func (s *ratingBackendStub) GetTrucks(ctx context.Context) ([]models.Vehicle, error) {
	return nil, nil
}

func (s *ratingBackendStub) SubmitRating(ctx context.Context, orderID string, rating int) error {
	s.submissions = append(s.submissions, rating)
	return s.err
}

func (s *ratingBackendStub) RegisterToken(ctx context.Context, token string) error { return nil }

func (s *ratingBackendStub) RegisterTokenLegacy(ctx context.Context, token string) error {
	return nil
}

func TestCoordinator_SelectValidation(t *testing.T) {
	c := NewCoordinator("ord-1", &ratingBackendStub{}, zap.NewNop())

	assert.ErrorIs(t, c.Select(0), ErrInvalidRating)
	assert.ErrorIs(t, c.Select(6), ErrInvalidRating)
	assert.NoError(t, c.Select(4))

	state, selected := c.State()
	assert.Equal(t, models.RatingSelected, state)
	assert.Equal(t, 4, selected)
}

func TestCoordinator_SubmitWithoutSelection(t *testing.T) {
	bk := &ratingBackendStub{}
	c := NewCoordinator("ord-1", bk, zap.NewNop())

	err := c.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNoRatingSelected)
	assert.Len(t, bk.submissions, 0)
}

func TestCoordinator_SubmitOnce(t *testing.T) {
	bk := &ratingBackendStub{}
	c := NewCoordinator("ord-1", bk, zap.NewNop())
	require.NoError(t, c.Select(5))

	require.NoError(t, c.Submit(context.Background()))
	require.Len(t, bk.submissions, 1)
	assert.Equal(t, 5, bk.submissions[0])

	// A repeat submit succeeds locally with no network call.
	require.NoError(t, c.Submit(context.Background()))
	assert.Len(t, bk.submissions, 1)

	// And a later select cannot change the locked rating.
	require.NoError(t, c.Select(1))
	state, selected := c.State()
	assert.Equal(t, models.RatingSubmitted, state)
	assert.Equal(t, 5, selected)
}

func TestCoordinator_FailureReenables(t *testing.T) {
	bk := &ratingBackendStub{err: &backend.TransientError{Op: "POST /api/ratings", Err: context.DeadlineExceeded}}
	c := NewCoordinator("ord-1", bk, zap.NewNop())
	require.NoError(t, c.Select(3))

	err := c.Submit(context.Background())
	require.Error(t, err)

	state, _ := c.State()
	assert.Equal(t, models.RatingSelected, state)

	bk.err = nil
	require.NoError(t, c.Submit(context.Background()))
	assert.Len(t, bk.submissions, 2)
}

func TestCoordinator_ConflictLocks(t *testing.T) {
	// The backend already holds a rating for this order; treat as submitted.
	bk := &ratingBackendStub{err: backend.ErrConflict}
	c := NewCoordinator("ord-1", bk, zap.NewNop())
	require.NoError(t, c.Select(2))

	require.NoError(t, c.Submit(context.Background()))

	state, _ := c.State()
	assert.Equal(t, models.RatingSubmitted, state)
	require.NoError(t, c.Submit(context.Background()))
	assert.Len(t, bk.submissions, 1)
}

func TestCoordinator_RestoreFromRecord(t *testing.T) {
	bk := &ratingBackendStub{}
	c := NewCoordinator("ord-1", bk, zap.NewNop())

	c.Restore(&models.PaymentRecord{Rating: 4})

	state, selected := c.State()
	assert.Equal(t, models.RatingSubmitted, state)
	assert.Equal(t, 4, selected)

	// Restored state is as locked as a live submission.
	require.NoError(t, c.Submit(context.Background()))
	assert.Len(t, bk.submissions, 0)
}

func TestCoordinator_RestoreIgnoresUnratedRecord(t *testing.T) {
	c := NewCoordinator("ord-1", &ratingBackendStub{}, zap.NewNop())

	c.Restore(nil)
	c.Restore(&models.PaymentRecord{})

	state, _ := c.State()
	assert.Equal(t, models.RatingUnset, state)
}

package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"haulaway/backend"
	"haulaway/models"
	"haulaway/services/notification"
	"haulaway/services/payment"
	"haulaway/services/proof"
	"haulaway/services/rating"
	"haulaway/services/session"
	"haulaway/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const orderCachePrefix = "order:"

// watch is the live lifecycle tracking for one order on one session: the
// state machine, its poller and the rating coordinator.
type watch struct {
	svc     *DefaultOrderService
	sess    *session.Context
	order   *models.Order
	machine *StateMachine
	poller  *StatusPoller
	rating  *rating.Coordinator

	mu         sync.Mutex
	lastRecord *models.PaymentRecord
}

// ApplyRecord folds a fetched PaymentRecord into the watch. It can be invoked
// from two tasks at once (the polling goroutine and a direct view refresh), so
// every write to the shared order goes through w.mu; side effects run on an
// immutable snapshot. Duplicate statuses are no-ops inside the state machine.
func (w *watch) ApplyRecord(ctx context.Context, rec *models.PaymentRecord) {
	// A record that already carries a rating locks the coordinator so a
	// restarted screen does not resubmit.
	w.rating.Restore(rec)

	tr := w.machine.Apply(rec.LifecycleStatus())

	w.mu.Lock()
	w.lastRecord = rec
	if rec.PaymentID != "" && w.order.PaymentID == "" {
		w.order.PaymentID = rec.PaymentID
	}
	// Read back from the machine rather than trusting tr, so a slower
	// concurrent application cannot regress the projection.
	w.order.Status = w.machine.Current()
	snap := *w.order
	w.mu.Unlock()

	if !tr.Changed {
		return
	}

	w.svc.Logger.Info("order status changed",
		zap.String("orderId", snap.ID),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
		zap.Bool("initial", tr.Initial))

	// The very first observation after a cold start initializes state
	// without a user-facing notification.
	if !tr.Initial {
		if token := w.sess.PushToken(); token != "" {
			if err := w.svc.Notifier.SendStatusPush(ctx, token, &snap, tr.To); err != nil {
				w.svc.Logger.Warn("status push failed",
					zap.String("orderId", snap.ID), zap.Error(err))
			}
		}
	}

	w.svc.Proof.Resolve(ctx, w.sess, snap.ID, "", rec)

	w.svc.saveOrder(ctx, w.sess, &snap)
}

func (w *watch) record() *models.PaymentRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRecord
}

// snapshot returns a consistent copy of the shared order state.
func (w *watch) snapshot() models.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.order
}

// DefaultOrderService is the production OrderService.
type DefaultOrderService struct {
	Backend  backend.Client
	Payments payment.PaymentService
	Proof    *proof.Resolver
	Notifier notification.NotificationService
	Cache    *redis.Client
	Logger   *zap.Logger

	mu      sync.Mutex
	watches map[string]*watch
}

func NewDefaultOrderService(
	bk backend.Client,
	payments payment.PaymentService,
	proofResolver *proof.Resolver,
	notifier notification.NotificationService,
	cache *redis.Client,
	logger *zap.Logger,
) *DefaultOrderService {
	return &DefaultOrderService{
		Backend:  bk,
		Payments: payments,
		Proof:    proofResolver,
		Notifier: notifier,
		Cache:    cache,
		Logger:   logger,
		watches:  make(map[string]*watch),
	}
}

func (s *DefaultOrderService) Submit(ctx context.Context, sess *session.Context, input OrderInput) (*SubmitResult, error) {
	method := models.ParsePaymentMethod(input.PaymentMethod)
	if !method.Known() {
		return nil, ErrUnsupportedMethod
	}

	ord := &models.Order{
		ID:            uuid.New().String(),
		ReferenceCode: newReferenceCode(),
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		CustomerEmail: input.CustomerEmail,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Address:       input.Address,
		WasteCategory: input.WasteCategory,
		WeightKg:      input.WeightKg,
		Method:        method,
		Notes:         input.Notes,
		Status:        models.StatusProcessing,
		CreatedAt:     time.Now(),
	}

	switch method {
	case models.MethodCash:
		rec, err := s.Payments.SubmitCash(ctx, ord)
		if err != nil {
			return nil, err
		}
		ord.PaymentID = rec.PaymentID
		s.saveOrder(ctx, sess, ord)
		w := s.ensureWatch(sess, ord)
		w.mu.Lock()
		w.lastRecord = rec
		w.mu.Unlock()
		return &SubmitResult{Order: ord, Record: rec}, nil

	case models.MethodGateway:
		checkoutURL, err := s.Payments.BeginGateway(ctx, ord)
		if err != nil {
			return nil, err
		}
		// No PaymentRecord exists until the invoice is paid, so no watch
		// and no polling yet.
		s.saveOrder(ctx, sess, ord)
		return &SubmitResult{Order: ord, CheckoutURL: checkoutURL}, nil
	}
	return nil, ErrUnsupportedMethod
}

func (s *DefaultOrderService) Activate(ctx context.Context, sess *session.Context, orderID string) error {
	ord, err := s.loadOrder(ctx, sess, orderID)
	if err != nil {
		return err
	}
	if ord.Method == models.MethodGateway && ord.PaymentID == "" {
		return ErrPaymentPending
	}
	w := s.ensureWatch(sess, ord)
	w.poller.Start(context.WithoutCancel(ctx), ord, w)
	return nil
}

func (s *DefaultOrderService) Deactivate(sess *session.Context, orderID string) {
	s.mu.Lock()
	w := s.watches[watchKey(sess, orderID)]
	s.mu.Unlock()
	if w != nil {
		w.poller.Stop()
	}
}

func (s *DefaultOrderService) Cancel(ctx context.Context, sess *session.Context, orderID string) error {
	ord, err := s.loadOrder(ctx, sess, orderID)
	if err != nil {
		return err
	}
	w := s.ensureWatch(sess, ord)
	if !w.machine.CanCancel() {
		return ErrCancelNotAllowed
	}

	paymentID := w.snapshot().PaymentID
	if paymentID == "" {
		rec, err := s.Backend.GetPaymentByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("cancel: resolve payment: %w", err)
		}
		paymentID = rec.PaymentID
	}

	err = s.Backend.UpdateJobStatus(ctx, paymentID, models.StatusCancelled)
	if err != nil && !errors.Is(err, backend.ErrConflict) {
		return err
	}

	// Force local state without waiting for the next poll.
	w.machine.ForceCancel()
	w.mu.Lock()
	w.order.Status = models.StatusCancelled
	snap := *w.order
	w.mu.Unlock()
	s.saveOrder(ctx, sess, &snap)

	go w.poller.FetchLatestStatus(context.WithoutCancel(ctx), ord, w, true)
	return nil
}

func (s *DefaultOrderService) FinalizeCheckout(ctx context.Context, sess *session.Context, orderID string) (*models.PaymentRecord, error) {
	ord, err := s.loadOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	rec, err := s.Payments.FinalizeGateway(ctx, ord)
	if err != nil {
		return nil, err
	}
	ord.PaymentID = rec.PaymentID
	w := s.ensureWatch(sess, ord)
	w.mu.Lock()
	w.order.PaymentID = rec.PaymentID
	w.lastRecord = rec
	snap := *w.order
	w.mu.Unlock()
	s.saveOrder(ctx, sess, &snap)
	return rec, nil
}

func (s *DefaultOrderService) AbandonCheckout(ctx context.Context, sess *session.Context, orderID string) error {
	if _, err := s.loadOrder(ctx, sess, orderID); err != nil {
		return err
	}
	return s.Payments.AbandonGateway(ctx, orderID)
}

func (s *DefaultOrderService) View(ctx context.Context, sess *session.Context, orderID string) (*models.PaymentView, error) {
	ord, err := s.loadOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	w := s.ensureWatch(sess, ord)

	rec := w.record()
	if rec == nil {
		fetched, err := s.Backend.GetPaymentByOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		w.ApplyRecord(ctx, fetched)
		rec = fetched
	}

	view := &models.PaymentView{Record: *rec}
	if rec.VehicleID != "" {
		if v := s.lookupVehicle(ctx, rec.VehicleID); v != nil {
			view.Vehicle = v
		}
	}
	return view, nil
}

func (s *DefaultOrderService) UploadProof(ctx context.Context, sess *session.Context, orderID string, image io.Reader) (string, error) {
	ord, err := s.loadOrder(ctx, sess, orderID)
	if err != nil {
		return "", err
	}
	url, err := s.Proof.Upload(ctx, sess, orderID, ord.PaymentID, image)
	if err != nil {
		return "", err
	}
	w := s.ensureWatch(sess, ord)
	go w.poller.FetchLatestStatus(context.WithoutCancel(ctx), ord, w, true)
	return url, nil
}

func (s *DefaultOrderService) ProofURL(ctx context.Context, sess *session.Context, orderID string) (string, bool) {
	s.mu.Lock()
	w := s.watches[watchKey(sess, orderID)]
	s.mu.Unlock()

	var rec *models.PaymentRecord
	if w != nil {
		rec = w.record()
	}
	return s.Proof.Resolve(ctx, sess, orderID, "", rec)
}

func (s *DefaultOrderService) SubmitRating(ctx context.Context, sess *session.Context, orderID string, n int) error {
	ord, err := s.loadOrder(ctx, sess, orderID)
	if err != nil {
		return err
	}
	w := s.ensureWatch(sess, ord)
	if w.machine.Current() != models.StatusCompleted {
		return ErrRatingUnavailable
	}
	if err := w.rating.Select(n); err != nil {
		return err
	}
	return w.rating.Submit(ctx)
}

func (s *DefaultOrderService) RatingStatus(sess *session.Context, orderID string) (models.RatingState, int, bool) {
	s.mu.Lock()
	w := s.watches[watchKey(sess, orderID)]
	s.mu.Unlock()
	if w == nil {
		return models.RatingUnset, 0, false
	}
	state, selected := w.rating.State()
	return state, selected, w.machine.Current() == models.StatusCompleted
}

func (s *DefaultOrderService) CloseSession(sess *session.Context) {
	prefix := sess.SessionID() + "/"
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, w := range s.watches {
		if strings.HasPrefix(key, prefix) {
			w.poller.Stop()
			delete(s.watches, key)
		}
	}
}

// ensureWatch returns the live watch for the order, creating it on first use.
func (s *DefaultOrderService) ensureWatch(sess *session.Context, ord *models.Order) *watch {
	key := watchKey(sess, ord.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.watches[key]; ok {
		return w
	}
	w := &watch{
		svc:     s,
		sess:    sess,
		order:   ord,
		machine: NewStateMachine(),
		poller:  NewStatusPoller(s.Backend, sess, s.Logger),
		rating:  rating.NewCoordinator(ord.ID, s.Backend, s.Logger),
	}
	s.watches[key] = w
	return w
}

func watchKey(sess *session.Context, orderID string) string {
	return sess.SessionID() + "/" + orderID
}

// saveOrder mirrors the order into the session cache so a process restart can
// recover it; the durable lifecycle state still lives on the backend.
func (s *DefaultOrderService) saveOrder(ctx context.Context, sess *session.Context, ord *models.Order) {
	data, err := json.Marshal(ord)
	if err != nil {
		s.Logger.Warn("failed to marshal order", zap.String("orderId", ord.ID), zap.Error(err))
		return
	}
	key := orderCachePrefix + sess.SessionID() + ":" + ord.ID
	if err := s.Cache.Set(ctx, key, data, session.SessionTTL).Err(); err != nil {
		s.Logger.Warn("failed to cache order", zap.String("orderId", ord.ID), zap.Error(err))
	}
}

func (s *DefaultOrderService) loadOrder(ctx context.Context, sess *session.Context, orderID string) (*models.Order, error) {
	s.mu.Lock()
	if w, ok := s.watches[watchKey(sess, orderID)]; ok {
		s.mu.Unlock()
		snap := w.snapshot()
		return &snap, nil
	}
	s.mu.Unlock()

	key := orderCachePrefix + sess.SessionID() + ":" + orderID
	data, err := s.Cache.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	var ord models.Order
	if err := json.Unmarshal([]byte(data), &ord); err != nil {
		return nil, fmt.Errorf("parse cached order: %w", err)
	}
	return &ord, nil
}

// lookupVehicle joins the assigned truck from the preloaded catalogue,
// falling back to a direct fetch when the cache is cold. Best effort: a
// missing vehicle never fails the view.
func (s *DefaultOrderService) lookupVehicle(ctx context.Context, vehicleID string) *models.Vehicle {
	var trucks []models.Vehicle

	data, err := s.Cache.Get(ctx, utils.TruckCacheKey).Result()
	if err == nil {
		if err := json.Unmarshal([]byte(data), &trucks); err != nil {
			trucks = nil
		}
	}
	if trucks == nil {
		trucks, err = s.Backend.GetTrucks(ctx)
		if err != nil {
			s.Logger.Debug("vehicle lookup failed", zap.String("vehicleId", vehicleID), zap.Error(err))
			return nil
		}
	}
	for i := range trucks {
		if trucks[i].ID == vehicleID {
			return &trucks[i]
		}
	}
	return nil
}

// newReferenceCode generates the human-readable code used as the alternate
// payment lookup key.
func newReferenceCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "HW-" + strings.ToUpper(raw[:8])
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"haulaway/models"

	"go.uber.org/zap"
)

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	BaseURL     string
	Client      *http.Client
	Credentials CredentialSource
	Logger      *zap.Logger
}

// NewHTTPClient builds a Client against the given base URL.
func NewHTTPClient(baseURL string, creds CredentialSource, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		BaseURL:     baseURL,
		Client:      &http.Client{Timeout: 15 * time.Second},
		Credentials: creds,
		Logger:      logger,
	}
}

// doJSON issues an authenticated request and decodes the response into out
// (when out is non-nil). A 500 response body is never decoded: some backend
// versions return garbage there and decoding would turn a server fault into a
// parse failure.
func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, body, out interface{}) error {
	token, err := c.Credentials.Token(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNoCredential)
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return &TransientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransientError{Op: op, Err: fmt.Errorf("decode body: %w", err)}
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case resp.StatusCode >= 500:
		return &TransientError{Op: op, Err: &StatusError{Op: op, Code: resp.StatusCode}}
	default:
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
}

func (c *HTTPClient) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	if err := c.doJSON(ctx, "create-payment", http.MethodPost, "/api/payments", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) GetQuote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	var q models.Quote
	if err := c.doJSON(ctx, "get-quote", http.MethodPost, "/api/quotes", req, &q); err != nil {
		return nil, err
	}
	if q.OrderID == "" {
		q.OrderID = req.OrderID
	}
	return &q, nil
}

func (c *HTTPClient) GetPaymentByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	path := "/api/payments/by-order/" + url.PathEscape(orderID)
	if err := c.doJSON(ctx, "get-payment-by-order", http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) GetPaymentByReference(ctx context.Context, referenceCode string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	path := "/api/payments/by-reference/" + url.PathEscape(referenceCode)
	if err := c.doJSON(ctx, "get-payment-by-reference", http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) UpdateJobStatus(ctx context.Context, paymentID string, status models.OrderStatus) error {
	body := map[string]string{"jobOrderStatus": string(status)}
	path := "/api/payments/" + url.PathEscape(paymentID) + "/status"
	return c.doJSON(ctx, "update-job-status", http.MethodPut, path, body, nil)
}

func (c *HTTPClient) UploadConfirmationImage(ctx context.Context, paymentID, imageURL string) error {
	body := map[string]string{"confirmationImageUrl": imageURL}
	path := "/api/payments/" + url.PathEscape(paymentID) + "/confirmation-image"
	return c.doJSON(ctx, "upload-confirmation-image", http.MethodPatch, path, body, nil)
}

func (c *HTTPClient) GetTrucks(ctx context.Context) ([]models.Vehicle, error) {
	var trucks []models.Vehicle
	if err := c.doJSON(ctx, "get-trucks", http.MethodGet, "/api/trucks", nil, &trucks); err != nil {
		return nil, err
	}
	return trucks, nil
}

func (c *HTTPClient) SubmitRating(ctx context.Context, orderID string, rating int) error {
	body := map[string]interface{}{"orderId": orderID, "rating": rating}
	return c.doJSON(ctx, "submit-rating", http.MethodPost, "/api/ratings", body, nil)
}

func (c *HTTPClient) RegisterToken(ctx context.Context, token string) error {
	body := map[string]string{"fcmToken": token}
	return c.doJSON(ctx, "register-token", http.MethodPost, "/api/devices/token", body, nil)
}

// RegisterTokenLegacy posts the token under the field name and path older
// backend versions expect.
func (c *HTTPClient) RegisterTokenLegacy(ctx context.Context, token string) error {
	body := map[string]string{"deviceToken": token}
	return c.doJSON(ctx, "register-token-legacy", http.MethodPost, "/api/users/device-token", body, nil)
}

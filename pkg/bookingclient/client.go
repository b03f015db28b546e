package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout        = "2006-01-02"
	defaultRetryAfter = time.Second
	maxErrorBody      = 64 << 10
)

// Client typed access to the booking engine REST API.
// A Client is safe for concurrent use; WithSession returns an independent copy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
}

// New builds a client for baseURL (e.g. "https://api.example.com").
// A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client, session Session) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    session,
	}
}

// WithSession copy of the client bound to another token
func (c *Client) WithSession(session Session) *Client {
	cp := *c
	cp.session = session
	return &cp
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Availability free slot starts of a service on one date
func (c *Client) Availability(ctx context.Context, q AvailabilityQuery) (*Availability, error) {
	params := url.Values{}
	params.Set("service_id", strconv.FormatInt(q.ServiceID, 10))
	params.Set("date", q.Date.Format(dateLayout))
	if q.EmployeeID != nil {
		params.Set("employee_id", strconv.FormatInt(*q.EmployeeID, 10))
	}

	var result Availability
	path := fmt.Sprintf("/businesses/%d/availability", q.BusinessID)
	if err := c.do(ctx, http.MethodGet, path, params, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateBooking submits a booking. An empty idempotencyKey gets a random one,
// so pass the same key explicitly when retrying after ErrUnavailable.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest, idempotencyKey string) (*Booking, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	headers := http.Header{}
	headers.Set("Idempotency-Key", idempotencyKey)

	var result createBookingResponse
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, req, headers, &result); err != nil {
		return nil, err
	}
	return &result.Booking, nil
}

// ListBookings admin listing of a business
func (c *Client) ListBookings(ctx context.Context, businessID int64, f BookingFilter) ([]Booking, error) {
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.DateFrom != nil {
		params.Set("date_from", f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		params.Set("date_to", f.DateTo.Format(dateLayout))
	}
	if f.EmployeeID != nil {
		params.Set("employee_id", strconv.FormatInt(*f.EmployeeID, 10))
	}
	if f.IncludeCancelled {
		params.Set("include_cancelled", "true")
	}

	var result []Booking
	path := fmt.Sprintf("/businesses/%d/bookings", businessID)
	if err := c.do(ctx, http.MethodGet, path, params, nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBookingStatus moves a booking to status
func (c *Client) UpdateBookingStatus(ctx context.Context, businessID, bookingID int64, status string) (*Booking, error) {
	var result Booking
	path := fmt.Sprintf("/businesses/%d/bookings/%d", businessID, bookingID)
	if err := c.do(ctx, http.MethodPut, path, nil, map[string]string{"status": status}, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in interface{}, headers http.Header, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("bookingclient: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("bookingclient: create request: %w", err)
	}
	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bookingclient: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("bookingclient: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	switch resp.StatusCode {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrSlotTaken, body.Message)
	case http.StatusUnprocessableEntity:
		return &ValidationError{Message: body.Message, Fields: body.Errors}
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body.Message)
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return &UnavailableError{StatusCode: resp.StatusCode, RetryAfter: retryAfter(resp.Header.Get("Retry-After"))}
	default:
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, body.Message)
	}
}

// retryAfter reads delay-seconds; HTTP dates fall back to the default
func retryAfter(raw string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

// IsRetryable reports whether repeating the call with the same idempotency key is safe and useful
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

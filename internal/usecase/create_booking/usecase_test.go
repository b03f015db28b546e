package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

var (
	monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
)

type businessFake struct{}

func (businessFake) GetByID(ctx context.Context, businessID int64) (*domain.Business, error) {
	if businessID != 1 {
		return nil, fmt.Errorf("business %w", domain.ErrNotFound)
	}
	return &domain.Business{ID: 1, OwnerID: 9, Name: "Barber", Slug: "barber"}, nil
}

type serviceFake struct{}

func (serviceFake) GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	if businessID != 1 || serviceID != 5 {
		return nil, fmt.Errorf("service %w", domain.ErrNotFound)
	}
	return &domain.Service{
		ID: 5, BusinessID: 1, Name: "Haircut", DurationMinutes: 30, Price: decimal.RequireFromString("25.50"),
	}, nil
}

type employeeFake struct{}

func (employeeFake) GetByID(ctx context.Context, businessID, employeeID int64) (*domain.Employee, error) {
	switch employeeID {
	case 7:
		return &domain.Employee{ID: 7, BusinessID: 1, Name: "Anna", IsActive: true}, nil
	case 8:
		return &domain.Employee{ID: 8, BusinessID: 1, Name: "Boris", IsActive: false}, nil
	}
	return nil, fmt.Errorf("employee %w", domain.ErrNotFound)
}

type scheduleFake struct{}

func (scheduleFake) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Schedule, error) {
	return []*domain.Schedule{
		{ID: 1, BusinessID: 1, Weekday: time.Monday, StartTime: "09:00", EndTime: "12:00"},
	}, nil
}

type settingsFake struct{ settings *domain.BookingSettings }

func (f settingsFake) GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingSettings, error) {
	if f.settings == nil {
		return nil, fmt.Errorf("settings %w", domain.ErrNotFound)
	}
	return f.settings, nil
}

// store in-memory bookings, idempotency keys and outbox
type store struct {
	mu             sync.Mutex
	bookings       []*domain.Booking
	keys           map[string]*domain.IdempotencyRecord
	events         []*domain.OutboxEvent
	transientLeft  int
	exclusionOnAdd bool
	serviceGone    bool
	lockCalls      int
}

func newStore() *store {
	return &store{keys: map[string]*domain.IdempotencyRecord{}}
}

func (s *store) LockDay(ctx context.Context, businessID int64, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockCalls++
	return nil
}

func (s *store) ListActiveInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transientLeft > 0 {
		s.transientLeft--
		return nil, fmt.Errorf("select bookings: %w", &pq.Error{Code: "57014"})
	}
	out := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.BusinessID == businessID && b.IsActive() && b.Overlaps(from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exclusionOnAdd {
		return nil, fmt.Errorf("booking overlaps: %w", domain.ErrConflict)
	}
	if s.serviceGone {
		return nil, fmt.Errorf("referenced row %w", domain.ErrNotFound)
	}
	created := *b
	created.ID = int64(len(s.bookings) + 100)
	created.CreatedAt = sunday
	created.UpdatedAt = sunday
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

func (s *store) GetByID(ctx context.Context, businessID, bookingID int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == bookingID && b.BusinessID == businessID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("booking %w", domain.ErrNotFound)
}

func (s *store) Get(ctx context.Context, businessID int64, key string) (*domain.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.keys[fmt.Sprintf("%d/%s", businessID, key)]
	if !ok {
		return nil, fmt.Errorf("key %w", domain.ErrNotFound)
	}
	return rec, nil
}

func (s *store) Save(ctx context.Context, rec *domain.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[fmt.Sprintf("%d/%s", rec.BusinessID, rec.Key)] = rec
	return nil
}

func (s *store) Add(ctx context.Context, e *domain.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *store) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// serialTx runs transactions one at a time, as the day lock does in Postgres
type serialTx struct{ mu sync.Mutex }

func (m *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type outcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *outcomes) ObserveBooking(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[outcome]++
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	uc      *UseCase
	store   *store
	metrics *outcomes
}

func newFixture(policy Policy, settings *domain.BookingSettings) *fixture {
	s := newStore()
	m := &outcomes{}
	if policy.TransientRetryBackoff == 0 {
		policy.TransientRetryBackoff = time.Millisecond
	}
	uc := NewUseCase(
		businessFake{}, serviceFake{}, employeeFake{}, scheduleFake{}, settingsFake{settings: settings},
		s, s, s, &serialTx{}, m, policy, logger.Nop(),
	)
	uc.timeProvider = fixedClock{now: sunday}
	return &fixture{uc: uc, store: s, metrics: m}
}

func validRequest() *Request {
	return &Request{
		BusinessID:    1,
		ServiceID:     5,
		Date:          monday,
		StartTime:     "09:00",
		CustomerName:  "  Alice Smith ",
		CustomerEmail: "Alice@Example.COM",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(Policy{}, nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	b := resp.Booking
	assert.False(t, resp.Replayed)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, "Alice Smith", b.CustomerName)
	assert.Equal(t, "alice@example.com", b.CustomerEmail)
	assert.Equal(t, monday.Add(9*time.Hour), b.StartAt)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), b.EndAt)
	assert.Equal(t, "Haircut", b.ServiceName)
	assert.True(t, decimal.RequireFromString("25.5").Equal(b.ServicePrice))
	assert.Nil(t, b.EmployeeName)

	require.Len(t, f.store.events, 1)
	assert.Equal(t, domain.EventBookingConfirmationRequested, f.store.events[0].EventType)
	assert.Equal(t, b.ID, f.store.events[0].AggregateID)
	assert.NotEmpty(t, f.store.events[0].EventID)
	assert.Contains(t, string(f.store.events[0].Payload), `"customer_email":"alice@example.com"`)

	assert.Equal(t, 1, f.store.lockCalls)
	assert.Equal(t, 1, f.metrics.counts[outcomeCommitted])
}

func TestExecute_DefaultStatusPending(t *testing.T) {
	f := newFixture(Policy{DefaultStatus: domain.StatusPending}, nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
}

func TestExecute_WithEmployee(t *testing.T) {
	f := newFixture(Policy{}, nil)
	req := validRequest()
	req.EmployeeID = ptr.Ptr(int64(7))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Booking.EmployeeName)
	assert.Equal(t, "Anna", *resp.Booking.EmployeeName)

	req.EmployeeID = ptr.Ptr(int64(8))
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	const n = 20
	f := newFixture(Policy{}, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.CustomerName = fmt.Sprintf("Customer %d", i)
			<-start
			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotTaken):
				conflicts++
			default:
				other = append(other, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, f.store.count())
	assert.Equal(t, n-1, f.metrics.counts[outcomeConflict])
}

func TestExecute_BackToBackIsNotAConflict(t *testing.T) {
	f := newFixture(Policy{}, nil)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	next := validRequest()
	next.StartTime = "09:30"
	_, err = f.uc.Execute(context.Background(), next)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_GeneralVsEmployeeScope(t *testing.T) {
	employeeReq := validRequest()
	employeeReq.EmployeeID = ptr.Ptr(int64(7))

	t.Run("isolated", func(t *testing.T) {
		f := newFixture(Policy{Scope: conflict.ScopeIsolated}, nil)
		_, err := f.uc.Execute(context.Background(), employeeReq)
		require.NoError(t, err)

		_, err = f.uc.Execute(context.Background(), validRequest())
		assert.NoError(t, err)
	})

	t.Run("shared", func(t *testing.T) {
		f := newFixture(Policy{Scope: conflict.ScopeShared}, nil)
		_, err := f.uc.Execute(context.Background(), employeeReq)
		require.NoError(t, err)

		_, err = f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})
}

func TestExecute_ExclusionConstraintBackstop(t *testing.T) {
	f := newFixture(Policy{}, nil)
	f.store.exclusionOnAdd = true

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.store.events)
}

func TestExecute_ServiceDeletedConcurrently(t *testing.T) {
	f := newFixture(Policy{}, nil)
	f.store.serviceGone = true

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Empty(t, f.store.events)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
	}{
		{"short name", func(r *Request) { r.CustomerName = "Al" }, "customer_name"},
		{"blank padded name", func(r *Request) { r.CustomerName = "  Al   " }, "customer_name"},
		{"bad email", func(r *Request) { r.CustomerEmail = "alice@example" }, "customer_email"},
		{"missing email", func(r *Request) { r.CustomerEmail = " " }, "customer_email"},
		{"bad time format", func(r *Request) { r.StartTime = "9am" }, "time"},
		{"missing date", func(r *Request) { r.Date = time.Time{} }, "date"},
		{"past date", func(r *Request) { r.Date = monday.AddDate(0, 0, -7) }, "date"},
		{"off grid", func(r *Request) { r.StartTime = "09:10" }, "time"},
		{"outside hours", func(r *Request) { r.StartTime = "12:00" }, "time"},
		{"closed day", func(r *Request) { r.Date = monday.AddDate(0, 0, 1) }, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Policy{}, nil)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			fields, ok := domain.FieldErrors(err)
			require.True(t, ok, "expected field errors, got %v", err)
			assert.Contains(t, fields, tt.field)
			assert.Equal(t, 0, f.store.count())
			assert.Equal(t, 1, f.metrics.counts[outcomeInvalid])
		})
	}
}

func TestExecute_AdvanceHorizon(t *testing.T) {
	f := newFixture(Policy{}, &domain.BookingSettings{BusinessID: 1, AdvanceBookingDays: 3})
	req := validRequest()
	req.Date = monday.AddDate(0, 0, 7)

	_, err := f.uc.Execute(context.Background(), req)
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "date")
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(Policy{}, nil)

	req := validRequest()
	req.ServiceID = 6
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req = validRequest()
	req.BusinessID = 2
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
	assert.Equal(t, 2, f.metrics.counts[outcomeNotFound])
}

func TestExecute_TransientRetry(t *testing.T) {
	t.Run("retried once then committed", func(t *testing.T) {
		f := newFixture(Policy{}, nil)
		f.store.transientLeft = 1

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.NotZero(t, resp.Booking.ID)
		assert.Equal(t, 1, f.store.count())
	})

	t.Run("surfaced after second failure", func(t *testing.T) {
		f := newFixture(Policy{}, nil)
		f.store.transientLeft = 2

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, domain.ErrTransient)
		assert.False(t, errors.Is(err, domain.ErrConflict))
		assert.Equal(t, 0, f.store.count())
		assert.Equal(t, 1, f.metrics.counts[outcomeTransient])
	})
}

func TestExecute_Idempotency(t *testing.T) {
	f := newFixture(Policy{}, nil)
	req := validRequest()
	req.IdempotencyKey = "a1b2c3"

	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	second, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
	assert.Equal(t, 1, f.store.count())
	assert.Len(t, f.store.events, 1)
	assert.Equal(t, 1, f.metrics.counts[outcomeReplayed])

	different := validRequest()
	different.IdempotencyKey = "a1b2c3"
	different.StartTime = "10:00"
	_, err = f.uc.Execute(context.Background(), different)
	assert.ErrorIs(t, err, ErrIdempotencyKeyReused)
}

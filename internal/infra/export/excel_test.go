package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

func TestWriteBookings(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	bookings := []*domain.Booking{
		{
			ID:                     1,
			StartAt:                start,
			EndAt:                  start.Add(30 * time.Minute),
			Status:                 domain.StatusConfirmed,
			ServiceName:            "Haircut",
			ServiceDurationMinutes: 30,
			ServicePrice:           decimal.RequireFromString("25.50"),
			EmployeeName:           ptr.Ptr("Anna"),
			CustomerName:           "John Smith",
			CustomerEmail:          "john@example.com",
		},
		{
			ID:            2,
			StartAt:       start.Add(time.Hour),
			EndAt:         start.Add(90 * time.Minute),
			Status:        domain.StatusPending,
			ServiceName:   "Beard",
			CustomerName:  "Bob Stone",
			CustomerEmail: "bob@example.com",
		},
	}

	var buf bytes.Buffer
	err := NewBookingsWriter().WriteBookings(&buf, &domain.Business{Name: "Cuts/Shaves"}, bookings)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Cuts-Shaves"}, sheets)

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, header, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "confirmed", rows[1][3])
	assert.Equal(t, "Haircut", rows[1][4])
	assert.Equal(t, "Anna", rows[1][7])
	assert.Equal(t, "john@example.com", rows[1][9])
	assert.Equal(t, "Bob Stone", rows[2][8])
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitizeSheetName("a/b?c"))
	assert.Len(t, []rune(sanitizeSheetName("a very long business name that exceeds the limit")), maxSheetName)
}

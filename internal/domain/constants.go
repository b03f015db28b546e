package domain

// Business validation constants
const (
	MinCustomerNameLength  = 3
	MaxCustomerNameLength  = 100
	MaxCustomerEmailLength = 254

	MinBusinessNameLength = 3
	MaxBusinessNameLength = 100
	MaxDescriptionLength  = 2000

	MinServiceNameLength  = 3
	MaxServiceNameLength  = 120
	MinServiceDuration    = 1
	MaxServiceDuration    = 1440
	MaxServicePriceDigits = 2

	MinEmployeeNameLength = 2
	MaxEmployeeNameLength = 100

	MinSlotStepMinutes      = 5
	MaxSlotStepMinutes      = 480
	MaxAdvanceBookingDays   = 365
	MaxBookingNoticeMinutes = 10080 // 1 week

	MinPasswordLength = 8
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Outbox event types
const (
	AggregateBooking                  = "booking"
	EventBookingConfirmationRequested = "booking.confirmation.requested"
)

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	sheetName     = "Bookings"
	maxSheetName  = 31
	dateTimeStyle = "yyyy-mm-dd hh:mm"
)

var header = []string{
	"ID",
	"Start",
	"End",
	"Status",
	"Service",
	"Duration (min)",
	"Price",
	"Employee",
	"Customer",
	"Email",
	"Created",
}

// BookingsWriter renders bookings into an xlsx workbook
type BookingsWriter struct{}

func NewBookingsWriter() *BookingsWriter {
	return &BookingsWriter{}
}

// WriteBookings writes one sheet named after the business, one row per booking.
// Times are written as they come; callers convert them to the display zone.
func (BookingsWriter) WriteBookings(w io.Writer, business *domain.Business, bookings []*domain.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName
	if business != nil && business.Name != "" {
		sheet = sanitizeSheetName(business.Name)
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	for i, col := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("export: header %s: %w", col, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, bold)
	}

	dateFmt := dateTimeStyle
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("export: date style: %w", err)
	}

	for i, b := range bookings {
		row := i + 2
		employee := ""
		if b.EmployeeName != nil {
			employee = *b.EmployeeName
		}
		price, _ := b.ServicePrice.Float64()

		values := []interface{}{
			b.ID,
			b.StartAt,
			b.EndAt,
			string(b.Status),
			b.ServiceName,
			b.ServiceDurationMinutes,
			price,
			employee,
			b.CustomerName,
			b.CustomerEmail,
			b.CreatedAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("export: booking id=%d: %w", b.ID, err)
			}
		}

		first, _ := excelize.CoordinatesToCellName(2, row)
		second, _ := excelize.CoordinatesToCellName(3, row)
		_ = f.SetCellStyle(sheet, first, second, dateStyle)
		created, _ := excelize.CoordinatesToCellName(11, row)
		_ = f.SetCellStyle(sheet, created, created, dateStyle)
	}

	_ = f.SetColWidth(sheet, "B", "C", 18)
	_ = f.SetColWidth(sheet, "E", "E", 24)
	_ = f.SetColWidth(sheet, "I", "J", 28)
	_ = f.SetColWidth(sheet, "K", "K", 18)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// sanitizeSheetName applies the Excel sheet name rules
func sanitizeSheetName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
		if len(out) == maxSheetName {
			break
		}
	}
	return string(out)
}

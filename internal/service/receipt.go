package service

import (
	"fmt"
	"strings"

	"carrental/internal/domain"
)

// ReceiptService renders return receipts.
type ReceiptService struct{}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// FormatReturnReceipt formats a return as a plain-text receipt. Charges that
// were corrected after the return show up as an adjustment line.
func (s *ReceiptService) FormatReturnReceipt(ret *domain.ReturnDetails, booking *domain.BookingDetails) string {
	charges := CalculateCharges(ret.Condition, ret.Damages, ret.FuelLevel)
	adjustment := domain.RoundMoney(ret.AdditionalCharges - charges.Total())

	var b strings.Builder
	line := "-------------------------------------\n"

	b.WriteString("=====================================\n")
	b.WriteString("        VEHICLE RETURN RECEIPT\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "Return #%d   Booking #%d\n", ret.ID, ret.BookingID)
	fmt.Fprintf(&b, "Returned: %s %s\n", domain.FormatDate(ret.ReturnDate), ret.ReturnTime.Format("15:04"))
	fmt.Fprintf(&b, "Processed by: %s\n\n", ret.ProcessedBy)

	b.WriteString("RENTAL\n")
	b.WriteString(line)
	fmt.Fprintf(&b, "Customer:  %s\n", booking.CustomerName)
	fmt.Fprintf(&b, "Car:       %s\n", booking.CarModel)
	fmt.Fprintf(&b, "Period:    %s - %s (%d days)\n\n",
		domain.FormatDate(booking.PickupDate), domain.FormatDate(booking.ReturnDate), booking.Days)

	b.WriteString("INSPECTION\n")
	b.WriteString(line)
	fmt.Fprintf(&b, "Condition: %s\n", ret.Condition)
	if ret.Mileage != nil {
		fmt.Fprintf(&b, "Mileage:   %d\n", *ret.Mileage)
	}
	if ret.FuelLevel != nil {
		fmt.Fprintf(&b, "Fuel:      %d%%\n", *ret.FuelLevel)
	}
	for _, d := range ret.Damages {
		fmt.Fprintf(&b, "Damage:    %s (%s)\n", d.Description, d.Severity)
	}
	if ret.Notes != "" {
		fmt.Fprintf(&b, "Notes:     %s\n", ret.Notes)
	}
	b.WriteString("\n")

	b.WriteString("CHARGES\n")
	b.WriteString(line)
	fmt.Fprintf(&b, "Rental:            $%s\n", formatMoney(booking.TotalCost))
	fmt.Fprintf(&b, "Condition:         $%s\n", formatMoney(charges.Condition))
	fmt.Fprintf(&b, "Damages:           $%s\n", formatMoney(charges.Damages))
	fmt.Fprintf(&b, "Refuelling:        $%s\n", formatMoney(charges.Fuel))
	if adjustment != 0 {
		fmt.Fprintf(&b, "Adjustment:        $%s\n", formatMoney(adjustment))
	}
	b.WriteString(line)
	fmt.Fprintf(&b, "TOTAL:             $%s\n\n", formatMoney(ret.TotalAmount))

	b.WriteString("=====================================\n")
	b.WriteString("   Thank you for renting with us!\n")
	b.WriteString("=====================================\n")

	return b.String()
}

func formatMoney(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

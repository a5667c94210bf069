package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

// ReceiptData carries everything the payment receipt renders.
type ReceiptData struct {
	TenantName string
	Payment    domain.Payment
	PartyName  string
}

// PaymentReceiptPDF renders a printable A5 receipt for a payment.
func PaymentReceiptPDF(data ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, data.TenantName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	title := "Payment Receipt"
	if data.Payment.Direction == domain.DirectionOut {
		title = "Payment Voucher"
	}
	pdf.CellFormat(0, 6, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}

	row("Receipt No", data.Payment.PaymentID)
	row("Date", data.Payment.PaymentDate.Format(dateLayout))
	row("Party", data.PartyName)
	row("Method", data.Payment.Method)
	if data.Payment.Reference != "" {
		row("Reference", data.Payment.Reference)
	}
	row("Amount", data.Payment.Amount.StringFixed(2))

	if len(data.Payment.Allocations) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Applied to sales", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, a := range data.Payment.Allocations {
			pdf.CellFormat(60, 5, a.SaleID, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, a.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

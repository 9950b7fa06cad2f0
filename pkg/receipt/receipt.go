package receipt

import (
	"bytes"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"

	"github.com/jung-kurt/gofpdf"
)

// Renderer materializes a payment receipt once a payment completes. The PDF
// is attached to the confirmation email and is purely informational; a render
// failure never affects payment or appointment state.
type Renderer interface {
	Render(payment *entity.Payment, appointment *entity.Appointment, doctor *entity.Doctor, patient *entity.User) ([]byte, error)
}

type pdfRenderer struct {
	clinicName string
}

func NewPDFRenderer(clinicName string) Renderer {
	return &pdfRenderer{clinicName: clinicName}
}

func (r *pdfRenderer) Render(payment *entity.Payment, appointment *entity.Appointment, doctor *entity.Doctor, patient *entity.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, r.clinicName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, "Payment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	line := func(label, value string) {
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	line("Receipt No:", payment.ID.String())
	if payment.ExternalRef != nil {
		line("Gateway Reference:", *payment.ExternalRef)
	}
	if payment.PaymentDate != nil {
		line("Paid At:", payment.PaymentDate.Format(time.RFC1123))
	}
	line("Patient:", patient.FullName)
	line("Doctor:", doctor.Name)
	line("Specialization:", doctor.Specialization)
	line("Appointment Date:", appointment.Date.Format("2006-01-02"))
	line("Time Slot:", appointment.TimeSlot)
	line("Consultation Mode:", string(appointment.Mode))
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	line("Amount Paid:", fmt.Sprintf("%.2f %s", payment.Amount, payment.Currency))

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "This receipt was generated automatically after payment confirmation.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

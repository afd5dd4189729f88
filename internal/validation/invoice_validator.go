package validation

import (
	"strings"

	"project-tracker/internal/domain"
)

// InvoiceValidator provides validation for invoice operations
type InvoiceValidator struct {
	validator *Validator
}

// NewInvoiceValidator creates an invoice validator
func NewInvoiceValidator() *InvoiceValidator {
	return &InvoiceValidator{validator: NewValidator()}
}

// ValidateInvoice validates an invoice before it is created or updated.
// A project, a positive amount and a due date are always required.
func (iv *InvoiceValidator) ValidateInvoice(invoice domain.Invoice) error {
	ve := NewValidationError()

	if !iv.validator.IsValidID(invoice.ProjectID) {
		ve.AddRequiredError("projectId")
	}
	if invoice.Amount <= 0 {
		ve.AddInvalidValueError("amount", invoice.Amount, "must be greater than 0")
	}

	if strings.TrimSpace(invoice.DueDate) == "" {
		ve.AddRequiredError("dueDate")
	} else if !iv.validator.IsValidDate(invoice.DueDate) {
		ve.AddInvalidFormatError("dueDate", invoice.DueDate, domain.DateLayout)
	}
	if !iv.validator.IsValidDate(invoice.PaymentDate) {
		ve.AddInvalidFormatError("paymentDate", invoice.PaymentDate, domain.DateLayout)
	}

	if !domain.IsKnownInvoiceStatus(invoice.Status) {
		ve.AddInvalidValueError("status", invoice.Status, "must be one of "+strings.Join(domain.InvoiceStatuses, ", "))
	}
	if invoice.Status == domain.InvoiceStatusPaid && invoice.PaymentDate == "" {
		ve.AddRequiredError("paymentDate")
	}
	if !iv.validator.HasNoControlCharacters(invoice.Name) {
		ve.AddInvalidValueError("name", invoice.Name, "must not contain control characters")
	}

	return ve.result()
}

// ValidateInvoiceID validates an invoice ID
func (iv *InvoiceValidator) ValidateInvoiceID(id int64) error {
	ve := NewValidationError()
	if !iv.validator.IsValidID(id) {
		ve.AddInvalidValueError("invoiceId", id, "must be a positive integer")
	}
	return ve.result()
}

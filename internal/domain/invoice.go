package domain

import (
	"fmt"
	"time"
)

// Invoice statuses. New invoices start as drafts.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// InvoiceStatuses lists every accepted invoice status.
var InvoiceStatuses = []string{InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue}

// Invoice bills a client for work on a project.
type Invoice struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Status      string  `json:"status" yaml:"status"`
	DueDate     string  `json:"dueDate" yaml:"dueDate"`
	PaymentDate string  `json:"paymentDate,omitempty" yaml:"paymentDate,omitempty"`
	ClientID    int64   `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	ProjectID   int64   `json:"projectId" yaml:"projectId"`
}

// NewInvoice creates a draft invoice named after the moment it was created.
func NewInvoice(projectID int64, amount float64, dueDate string, now time.Time) Invoice {
	return Invoice{
		Name:      DefaultInvoiceName(now),
		Amount:    amount,
		Status:    InvoiceStatusDraft,
		DueDate:   dueDate,
		ProjectID: projectID,
	}
}

// DefaultInvoiceName is used when an invoice is created without a name.
func DefaultInvoiceName(at time.Time) string {
	return fmt.Sprintf("Invoice %d", at.UnixMilli())
}

// IsPaid reports whether payment has been recorded.
func (i Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsKnownInvoiceStatus reports whether status is one of InvoiceStatuses.
func IsKnownInvoiceStatus(status string) bool {
	for _, s := range InvoiceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewInvoice(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	invoice := NewInvoice(4, 1250.5, "2024-07-01", now)

	assert.Equal(t, "Invoice 1717243200000", invoice.Name)
	assert.Equal(t, InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, int64(4), invoice.ProjectID)
	assert.Equal(t, 1250.5, invoice.Amount)
	assert.Equal(t, "2024-07-01", invoice.DueDate)
	assert.False(t, invoice.IsPaid())
}

func TestIsKnownInvoiceStatus(t *testing.T) {
	for _, status := range InvoiceStatuses {
		assert.True(t, IsKnownInvoiceStatus(status), status)
	}
	assert.False(t, IsKnownInvoiceStatus("Paid"))
	assert.False(t, IsKnownInvoiceStatus(""))
}

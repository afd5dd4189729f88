package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/services"
)

func TestListInvoices(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("ListInvoices", mock.Anything, int64(0)).Return(nil, nil)
	m.On("ListInvoices", mock.Anything, int64(5)).Return([]domain.Invoice{{ID: 1, ProjectID: 5, Amount: 10}}, nil)

	rec := serve(t, m, http.MethodGet, "/api/v1/invoices")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(t, m, http.MethodGet, "/api/v1/invoices?project=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var invoices []domain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoices))
	require.Len(t, invoices, 1)
	assert.Equal(t, 10.0, invoices[0].Amount)

	rec = serve(t, m, http.MethodGet, "/api/v1/invoices?project=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNumberOfCalls(t, "ListInvoices", 2)
}

func TestGetInvoice_NotFound(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("GetInvoice", mock.Anything, int64(9)).Return(nil, errors.NewNotFoundError("invoice", "9"))

	rec := serve(t, m, http.MethodGet, "/api/v1/invoices/9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "invoice not found: 9", decodeError(t, rec).Error)
}

func TestCreateInvoice(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("CreateInvoice", mock.Anything, services.InvoiceInput{ProjectID: 5, Amount: 250, DueDate: "2024-07-01"}).
		Return(&domain.Invoice{ID: 1, ProjectID: 5, Amount: 250, DueDate: "2024-07-01", Status: domain.InvoiceStatusDraft}, nil)

	rec := serveJSON(t, m, http.MethodPost, "/api/v1/invoices", `{"projectId":5,"amount":250,"dueDate":"2024-07-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var invoice domain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	m.AssertExpectations(t)
}

func TestCreateInvoice_Invalid(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, errors.NewValidationError("amount must be greater than 0", nil))

	rec := serveJSON(t, m, http.MethodPost, "/api/v1/invoices", `{"projectId":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec).Code)
}

func TestUpdateInvoice(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("UpdateInvoice", mock.Anything, int64(1), mock.MatchedBy(func(u services.InvoiceUpdate) bool {
		return u.Amount != nil && *u.Amount == 300 && u.Status == nil
	})).Return(&domain.Invoice{ID: 1, Amount: 300}, nil)

	rec := serveJSON(t, m, http.MethodPatch, "/api/v1/invoices/1", `{"amount":300}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	m.AssertExpectations(t)
}

func TestSendInvoice(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("MarkInvoiceSent", mock.Anything, int64(1)).Return(&domain.Invoice{ID: 1, Status: domain.InvoiceStatusSent}, nil)

	rec := serve(t, m, http.MethodPost, "/api/v1/invoices/1/send")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"sent"`)
}

func TestPayInvoice(t *testing.T) {
	paidOn := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)
	m := &mockBusinessAPI{}
	m.On("MarkInvoicePaid", mock.Anything, int64(1), paidOn).
		Return(&domain.Invoice{ID: 1, Status: domain.InvoiceStatusPaid, PaymentDate: "2024-07-03"}, nil)
	m.On("MarkInvoicePaid", mock.Anything, int64(2), time.Time{}).
		Return(&domain.Invoice{ID: 2, Status: domain.InvoiceStatusPaid, PaymentDate: "2024-07-04"}, nil)

	rec := serveJSON(t, m, http.MethodPost, "/api/v1/invoices/1/pay", `{"paymentDate":"2024-07-03"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, m, http.MethodPost, "/api/v1/invoices/2/pay")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serveJSON(t, m, http.MethodPost, "/api/v1/invoices/1/pay", `{"paymentDate":"03/07/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.AssertNumberOfCalls(t, "MarkInvoicePaid", 2)
}

func TestDeleteInvoice(t *testing.T) {
	m := &mockBusinessAPI{}
	m.On("DeleteInvoice", mock.Anything, int64(1)).Return(nil)

	rec := serve(t, m, http.MethodDelete, "/api/v1/invoices/1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	m.AssertExpectations(t)
}

package services

import (
	"context"
	"strings"
	"time"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
	"project-tracker/internal/validation"
)

// invoiceServiceImpl implements the InvoiceService interface
type invoiceServiceImpl struct {
	store     RecordStore
	logger    *logging.Logger
	validator *validation.InvoiceValidator
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService instance
func NewInvoiceService(store RecordStore, logger *logging.Logger) InvoiceService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &invoiceServiceImpl{
		store:     store,
		logger:    logger.With(logging.F("component", "invoices")),
		validator: validation.NewInvoiceValidator(),
		now:       time.Now,
	}
}

// ListInvoices returns every invoice, optionally limited to one project
func (s *invoiceServiceImpl) ListInvoices(ctx context.Context, projectID int64) ([]domain.Invoice, error) {
	invoices, err := s.store.FetchInvoices(ctx)
	if err != nil {
		return nil, err
	}
	if projectID <= 0 {
		return invoices, nil
	}

	filtered := make([]domain.Invoice, 0, len(invoices))
	for _, invoice := range invoices {
		if invoice.ProjectID == projectID {
			filtered = append(filtered, invoice)
		}
	}
	return filtered, nil
}

// GetInvoice returns one invoice
func (s *invoiceServiceImpl) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	if err := s.validator.ValidateInvoiceID(id); err != nil {
		return nil, err
	}
	return s.store.FetchInvoice(ctx, id)
}

// CreateInvoice validates and stores a new invoice. Status defaults to draft
// and the name to one derived from the creation time.
func (s *invoiceServiceImpl) CreateInvoice(ctx context.Context, input InvoiceInput) (*domain.Invoice, error) {
	invoice := domain.NewInvoice(input.ProjectID, input.Amount, strings.TrimSpace(input.DueDate), s.now())
	if name := strings.TrimSpace(input.Name); name != "" {
		invoice.Name = name
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		invoice.Status = status
	}
	invoice.PaymentDate = strings.TrimSpace(input.PaymentDate)
	invoice.ClientID = input.ClientID

	if err := s.validator.ValidateInvoice(invoice); err != nil {
		return nil, err
	}
	if _, err := s.store.FetchProject(ctx, invoice.ProjectID); err != nil {
		return nil, err
	}

	created, err := s.store.CreateInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}
	s.logger.Info("invoice created",
		logging.F("invoice_id", created.ID),
		logging.F("project_id", created.ProjectID),
		logging.F("amount", created.Amount),
	)
	return created, nil
}

// UpdateInvoice applies the non-nil fields of update to an existing invoice
func (s *invoiceServiceImpl) UpdateInvoice(ctx context.Context, id int64, update InvoiceUpdate) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	previousProject := invoice.ProjectID

	if update.Name != nil {
		invoice.Name = strings.TrimSpace(*update.Name)
	}
	if update.Amount != nil {
		invoice.Amount = *update.Amount
	}
	if update.Status != nil {
		invoice.Status = strings.TrimSpace(*update.Status)
	}
	if update.DueDate != nil {
		invoice.DueDate = strings.TrimSpace(*update.DueDate)
	}
	if update.PaymentDate != nil {
		invoice.PaymentDate = strings.TrimSpace(*update.PaymentDate)
	}
	if update.ClientID != nil {
		invoice.ClientID = *update.ClientID
	}
	if update.ProjectID != nil {
		invoice.ProjectID = *update.ProjectID
	}
	if invoice.Name == "" {
		invoice.Name = domain.DefaultInvoiceName(s.now())
	}

	return s.save(ctx, *invoice, previousProject, "invoice updated")
}

// MarkSent moves an invoice to the sent status
func (s *invoiceServiceImpl) MarkSent(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceStatusSent
	return s.save(ctx, *invoice, invoice.ProjectID, "invoice sent")
}

// MarkPaid records payment on paidOn
func (s *invoiceServiceImpl) MarkPaid(ctx context.Context, id int64, paidOn time.Time) (*domain.Invoice, error) {
	if paidOn.IsZero() {
		return nil, errors.NewValidationError("payment date is required", nil)
	}
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceStatusPaid
	invoice.PaymentDate = paidOn.UTC().Format(domain.DateLayout)
	return s.save(ctx, *invoice, invoice.ProjectID, "invoice paid")
}

// DeleteInvoice removes an invoice
func (s *invoiceServiceImpl) DeleteInvoice(ctx context.Context, id int64) error {
	if _, err := s.GetInvoice(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		return err
	}
	s.logger.Info("invoice deleted", logging.F("invoice_id", id))
	return nil
}

// save validates invoice and writes it; a changed project must exist
func (s *invoiceServiceImpl) save(ctx context.Context, invoice domain.Invoice, previousProject int64, event string) (*domain.Invoice, error) {
	if err := s.validator.ValidateInvoice(invoice); err != nil {
		return nil, err
	}
	if invoice.ProjectID != previousProject {
		if _, err := s.store.FetchProject(ctx, invoice.ProjectID); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}
	s.logger.Info(event,
		logging.F("invoice_id", updated.ID),
		logging.F("status", updated.Status),
	)
	return updated, nil
}

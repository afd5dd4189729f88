package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/services"
)

type invoiceBody struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	DueDate     string  `json:"dueDate"`
	PaymentDate string  `json:"paymentDate"`
	ClientID    int64   `json:"clientId"`
	ProjectID   int64   `json:"projectId"`
}

type invoicePatch struct {
	Name        *string  `json:"name"`
	Amount      *float64 `json:"amount"`
	Status      *string  `json:"status"`
	DueDate     *string  `json:"dueDate"`
	PaymentDate *string  `json:"paymentDate"`
	ClientID    *int64   `json:"clientId"`
	ProjectID   *int64   `json:"projectId"`
}

// paymentBody is optional; an empty paymentDate means today
type paymentBody struct {
	PaymentDate string `json:"paymentDate"`
}

func (s *Server) handleListInvoices(c echo.Context) error {
	var projectID int64
	if raw := strings.TrimSpace(c.QueryParam("project")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return errors.NewInvalidInputError("project", raw, "must be a positive integer")
		}
		projectID = id
	}

	invoices, err := s.api.ListInvoices(c.Request().Context(), projectID)
	if err != nil {
		return err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return c.JSON(http.StatusOK, invoices)
}

func (s *Server) handleGetInvoice(c echo.Context) error {
	id, err := idParam(c, "invoice_id")
	if err != nil {
		return err
	}
	invoice, err := s.api.GetInvoice(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleCreateInvoice(c echo.Context) error {
	var body invoiceBody
	if err := c.Bind(&body); err != nil {
		return err
	}

	invoice, err := s.api.CreateInvoice(c.Request().Context(), services.InvoiceInput(body))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

func (s *Server) handleUpdateInvoice(c echo.Context) error {
	id, err := idParam(c, "invoice_id")
	if err != nil {
		return err
	}
	var body invoicePatch
	if err := c.Bind(&body); err != nil {
		return err
	}

	invoice, err := s.api.UpdateInvoice(c.Request().Context(), id, services.InvoiceUpdate(body))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleSendInvoice(c echo.Context) error {
	id, err := idParam(c, "invoice_id")
	if err != nil {
		return err
	}
	invoice, err := s.api.MarkInvoiceSent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

func (s *Server) handlePayInvoice(c echo.Context) error {
	id, err := idParam(c, "invoice_id")
	if err != nil {
		return err
	}
	var body paymentBody
	if err := c.Bind(&body); err != nil {
		return err
	}

	var paidOn time.Time
	if raw := strings.TrimSpace(body.PaymentDate); raw != "" {
		paidOn, err = time.Parse(domain.DateLayout, raw)
		if err != nil {
			return errors.NewInvalidInputError("paymentDate", raw, "must be a date in "+domain.DateLayout+" format")
		}
	}

	invoice, err := s.api.MarkInvoicePaid(c.Request().Context(), id, paidOn)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleDeleteInvoice(c echo.Context) error {
	id, err := idParam(c, "invoice_id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteInvoice(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package cli

import (
	"context"

	"github.com/dustin/go-humanize"

	"project-tracker/internal/api"
	"project-tracker/internal/domain"
	"project-tracker/internal/errors"
	"project-tracker/internal/services"
)

// InvoiceAddCommand handles "invoice add"
type InvoiceAddCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	input        services.InvoiceInput
}

// NewInvoiceAddCommand creates a new invoice add handler; input carries flag values
func NewInvoiceAddCommand(app *App, input services.InvoiceInput) *InvoiceAddCommand {
	return &InvoiceAddCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		input:        input,
	}
}

// Execute runs the invoice add command
func (c *InvoiceAddCommand) Execute(ctx context.Context, args []string) error {
	invoice, err := c.businessAPI.CreateInvoice(ctx, c.input)
	if err != nil {
		return c.errorHandler.Handle("create invoice", err)
	}

	c.app.printf("Created invoice %d: %s for %s (project %d, due %s)\n",
		invoice.ID, invoice.Name, humanize.CommafWithDigits(invoice.Amount, 2), invoice.ProjectID, invoice.DueDate)
	return nil
}

// InvoiceListCommand handles "invoice list"
type InvoiceListCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	projectID    int64
}

// NewInvoiceListCommand creates a new invoice list handler; projectID 0 lists every invoice
func NewInvoiceListCommand(app *App, projectID int64) *InvoiceListCommand {
	return &InvoiceListCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		projectID:    projectID,
	}
}

// Execute runs the invoice list command
func (c *InvoiceListCommand) Execute(ctx context.Context, args []string) error {
	invoices, err := c.businessAPI.ListInvoices(ctx, c.projectID)
	if err != nil {
		return c.errorHandler.Handle("list invoices", err)
	}

	if len(invoices) == 0 {
		c.app.printf("No invoices found.\n")
		return nil
	}

	c.app.printf("%-6s %-24s %-8s %12s %-8s %-10s %s\n", "ID", "NAME", "PROJECT", "AMOUNT", "STATUS", "DUE", "PAID")
	var outstanding float64
	for _, inv := range invoices {
		c.app.printf("%-6d %-24s %-8d %12s %-8s %-10s %s\n",
			inv.ID, inv.Name, inv.ProjectID, humanize.CommafWithDigits(inv.Amount, 2), inv.Status, inv.DueDate, inv.PaymentDate)
		if !inv.IsPaid() {
			outstanding += inv.Amount
		}
	}
	c.app.printf("\nOutstanding: %s\n", humanize.CommafWithDigits(outstanding, 2))
	return nil
}

// InvoiceShowCommand handles "invoice show"
type InvoiceShowCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewInvoiceShowCommand creates a new invoice show handler
func NewInvoiceShowCommand(app *App) *InvoiceShowCommand {
	return &InvoiceShowCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the invoice show command
func (c *InvoiceShowCommand) Execute(ctx context.Context, args []string) error {
	id, err := invoiceIDArg("invoice show", args)
	if err != nil {
		return err
	}

	invoice, err := c.businessAPI.GetInvoice(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("show invoice", err)
	}
	c.app.printInvoice(invoice)
	return nil
}

// InvoiceUpdateCommand handles "invoice update"
type InvoiceUpdateCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	update       services.InvoiceUpdate
}

// NewInvoiceUpdateCommand creates a new invoice update handler; update holds
// only the flags that were set
func NewInvoiceUpdateCommand(app *App, update services.InvoiceUpdate) *InvoiceUpdateCommand {
	return &InvoiceUpdateCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		update:       update,
	}
}

// Execute runs the invoice update command
func (c *InvoiceUpdateCommand) Execute(ctx context.Context, args []string) error {
	id, err := invoiceIDArg("invoice update", args)
	if err != nil {
		return err
	}

	invoice, err := c.businessAPI.UpdateInvoice(ctx, id, c.update)
	if err != nil {
		return c.errorHandler.Handle("update invoice", err)
	}
	c.app.printf("Updated invoice %d\n", invoice.ID)
	c.app.printInvoice(invoice)
	return nil
}

// InvoiceActionCommand handles "invoice send", "invoice pay" and "invoice delete"
type InvoiceActionCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	action       string
	paidOn       string
}

// NewInvoiceActionCommand creates a handler for action; paidOn is only read by pay
func NewInvoiceActionCommand(app *App, action, paidOn string) *InvoiceActionCommand {
	return &InvoiceActionCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		action:       action,
		paidOn:       paidOn,
	}
}

// Execute runs the invoice action
func (c *InvoiceActionCommand) Execute(ctx context.Context, args []string) error {
	id, err := invoiceIDArg("invoice "+c.action, args)
	if err != nil {
		return err
	}

	switch c.action {
	case "send":
		invoice, err := c.businessAPI.MarkInvoiceSent(ctx, id)
		if err != nil {
			return c.errorHandler.Handle("send invoice", err)
		}
		c.app.printf("Invoice %d marked as %s\n", invoice.ID, invoice.Status)

	case "pay":
		paidOn, err := parseDate("date", c.paidOn)
		if err != nil {
			return err
		}
		invoice, err := c.businessAPI.MarkInvoicePaid(ctx, id, paidOn)
		if err != nil {
			return c.errorHandler.Handle("record payment", err)
		}
		c.app.printf("Invoice %d marked as %s on %s\n", invoice.ID, invoice.Status, invoice.PaymentDate)

	case "delete":
		if err := c.businessAPI.DeleteInvoice(ctx, id); err != nil {
			return c.errorHandler.Handle("delete invoice", err)
		}
		c.app.printf("Deleted invoice %d\n", id)

	default:
		return errors.NewInvalidInputError("action", c.action, "must be send, pay or delete")
	}
	return nil
}

func invoiceIDArg(usage string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.NewInvalidInputError("command", usage, "usage: pt "+usage+" <invoice-id>")
	}
	return parseID("invoice_id", args[0])
}

func (a *App) printInvoice(inv *domain.Invoice) {
	a.printf("Invoice %d: %s\n", inv.ID, inv.Name)
	a.printf("  Project:  %d\n", inv.ProjectID)
	if inv.ClientID != 0 {
		a.printf("  Client:   %d\n", inv.ClientID)
	}
	a.printf("  Amount:   %s\n", humanize.CommafWithDigits(inv.Amount, 2))
	a.printf("  Status:   %s\n", inv.Status)
	a.printf("  Due:      %s\n", inv.DueDate)
	if inv.PaymentDate != "" {
		a.printf("  Paid:     %s\n", inv.PaymentDate)
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"project-tracker/internal/api"
	"project-tracker/internal/config"
	"project-tracker/internal/logging"
	"project-tracker/internal/services"
)

// APIFactory opens the business API for a loaded configuration
type APIFactory func(cfg *config.Config, logger *logging.Logger) (api.BusinessAPI, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory APIFactory
	out     io.Writer
	config  *config.Config
}

// NewRootCommand creates the root cobra command with global flags.
// A nil factory opens the configured backend with api.New.
func NewRootCommand(factory APIFactory, out io.Writer) *RootCommand {
	if factory == nil {
		factory = api.New
	}

	root := &RootCommand{
		factory: factory,
		out:     out,
	}

	root.cmd = &cobra.Command{
		Use:   "pt",
		Short: "Track time against projects and tasks",
		Long: `Project Tracker (pt) records time against tasks and reports where it went.

FEATURES:
  • Create, edit and delete projects and tasks, then log time manually or with live timers
  • Draft, send and mark invoices paid
  • Per-project reports with the ten most recent entries
  • A global report with a per-task breakdown
  • Text, JSON, YAML and CSV output
  • An HTTP API serving the same reports
  • A local SQLite/Postgres store or a hosted record backend

EXAMPLES:
  pt project add "Website redesign"        # Create a project
  pt task add --project 1 "Landing page"   # Create a task in project 1
  pt timer start 3                         # Start timing task 3
  pt timer stop 3                          # Stop it and record a time log
  pt log add 3 45m                         # Log 45 minutes ending now
  pt task status 3 done                    # Mark task 3 done
  pt invoice add -p 1 --amount 1200 --due 2024-07-01
  pt report project 1                      # Project report
  pt report all --format csv > time.csv    # Global report as CSV
  pt serve --addr :9090                    # Serve the HTTP API

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults
  The config file is ~/.pt/config.yaml, or PT_CONFIG / --config (.yaml or .toml).

  Backend:
    PT_BACKEND                             sql or apper (default: sql)
    PT_APPER_BASE_URL                      Hosted backend URL
    PT_APPER_PROJECT_ID                    Hosted backend project id
    PT_APPER_PUBLIC_KEY                    Hosted backend public key
    PT_APPER_TIMEOUT                       Hosted backend request timeout (default: 15s)

  Database:
    PT_DB_DRIVER                           sqlite or postgres (default: sqlite)
    PT_DB_DSN                              Postgres connection string
    PT_DB_DIR                              Database directory (default: ~/.pt)
    PT_DB_FILENAME                         Database filename (default: pt.db)
    PT_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    PT_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Reports and display:
    PT_REPORT_RECENT_LOGS                  Recent entries per project report (default: 10)
    PT_REPORT_FETCH_CONCURRENCY            Parallel per-task log fetches (default: 1)
    PT_REPORT_FORMAT                       text, json, yaml or csv (default: text)
    PT_TIME_DISPLAY_FORMAT                 Time format (default: 2006-01-02 15:04:05)
    PT_DISPLAY_RELATIVE_TIMES              Show "2 hours ago" style times

  Logging and application:
    PT_LOG_LEVEL, PT_LOG_FILE, PT_LOG_CONSOLE
    PT_DEBUG                               Force debug logging
    PT_SERVER_ADDR                         HTTP listen address (default: :8080)
    PT_APP_TIMEOUT                         Per-command timeout (default: 60s)
    PT_APP_VERBOSE                         Verbose output`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if out != nil {
		root.cmd.SetOut(out)
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with ctx; serve stops when ctx is done
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mostly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Config returns the configuration loaded by the last command, if any
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides PT_CONFIG)")
	flags.String("backend", "", "Record backend: sql or apper (overrides PT_BACKEND)")

	// Database configuration
	flags.String("db-driver", "", "Database driver: sqlite or postgres (overrides PT_DB_DRIVER)")
	flags.String("db-dsn", "", "Postgres connection string (overrides PT_DB_DSN)")
	flags.String("db-dir", "", "Database directory (overrides PT_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides PT_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides PT_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides PT_DB_WRITE_TIMEOUT)")

	// Report configuration
	flags.Int("recent-logs", 0, "Recent entries per project report (overrides PT_REPORT_RECENT_LOGS)")
	flags.Int("fetch-concurrency", 0, "Parallel per-task log fetches (overrides PT_REPORT_FETCH_CONCURRENCY)")

	// Logging configuration
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides PT_LOG_LEVEL)")
	flags.String("log-file", "", "Log file (overrides PT_LOG_FILE)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Per-command timeout (overrides PT_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides PT_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.projectCommand(),
		r.taskCommand(),
		r.logCommand(),
		r.timerCommand(),
		r.invoiceCommand(),
		r.reportCommand(),
		r.serveCommand(),
	)
}

func (r *RootCommand) projectCommand() *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var input services.ProjectInput
	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewProjectAddCommand(app, input)
		}),
	}
	addCmd.Flags().StringVar(&input.Status, "status", "", "Project status (default: planning)")
	addCmd.Flags().Float64Var(&input.Budget, "budget", 0, "Project budget")
	addCmd.Flags().StringVar(&input.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&input.EndDate, "end", "", "End date (YYYY-MM-DD)")
	addCmd.Flags().Int64Var(&input.ClientID, "client", 0, "Client id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewProjectListCommand(app)
		}),
	}

	updateCmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Change project fields",
		Long:  "Change the fields given as flags; the others keep their values.",
		Args:  cobra.ExactArgs(1),
	}
	updateCmd.Flags().String("name", "", "Project name")
	updateCmd.Flags().String("status", "", "Project status")
	updateCmd.Flags().Float64("budget", 0, "Project budget")
	updateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	updateCmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	updateCmd.Flags().Int64("client", 0, "Client id")
	updateCmd.RunE = r.runWithApp(true, func(app *App) Command {
		set := setFlags{updateCmd.Flags()}
		return NewProjectUpdateCommand(app, services.ProjectUpdate{
			Name:      set.str("name"),
			Status:    set.str("status"),
			Budget:    set.f64("budget"),
			StartDate: set.str("start"),
			EndDate:   set.str("end"),
			ClientID:  set.i64("client"),
		})
	})

	deleteCmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project; its tasks are kept",
		Args:  cobra.ExactArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewProjectDeleteCommand(app)
		}),
	}

	projectCmd.AddCommand(addCmd, listCmd, updateCmd, deleteCmd)
	return projectCmd
}

func (r *RootCommand) taskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var input services.TaskInput
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Long:  "Create a task in a project. Priority defaults to medium and status to todo.",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewTaskAddCommand(app, input)
		}),
	}
	addCmd.Flags().StringVarP(&input.ProjectID, "project", "p", "", "Project id (required)")
	addCmd.Flags().StringVar(&input.Priority, "priority", "", "Priority (default: medium)")
	addCmd.Flags().StringVar(&input.Status, "status", "", "Status (default: todo)")
	addCmd.Flags().StringVar(&input.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	_ = addCmd.MarkFlagRequired("project")

	var projectID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewTaskListCommand(app, projectID)
		}),
	}
	listCmd.Flags().StringVarP(&projectID, "project", "p", "", "Only tasks of this project")

	updateCmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change task fields",
		Long:  "Change the fields given as flags; the others keep their values. Moving a task checks that the new project exists.",
		Args:  cobra.ExactArgs(1),
	}
	updateCmd.Flags().String("title", "", "Task title")
	updateCmd.Flags().StringP("project", "p", "", "Project id")
	updateCmd.Flags().String("priority", "", "Priority")
	updateCmd.Flags().String("status", "", "Status")
	updateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	updateCmd.RunE = r.runWithApp(true, func(app *App) Command {
		set := setFlags{updateCmd.Flags()}
		return NewTaskUpdateCommand(app, services.TaskUpdate{
			Title:     set.str("title"),
			ProjectID: set.str("project"),
			Priority:  set.str("priority"),
			Status:    set.str("status"),
			DueDate:   set.str("due"),
		})
	})

	statusCmd := &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Set the status of a task",
		Args:  cobra.ExactArgs(2),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewTaskStatusCommand(app)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its running timer",
		Long:  "Delete a task. A running timer goes with it; logged time is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewTaskDeleteCommand(app)
		}),
	}

	taskCmd.AddCommand(addCmd, listCmd, updateCmd, statusCmd, deleteCmd)
	return taskCmd
}

func (r *RootCommand) logCommand() *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Record time manually",
	}

	var opts LogAddOptions
	addCmd := &cobra.Command{
		Use:   "add <task-id> [duration]",
		Short: "Log a completed interval",
		Long: `Log a completed interval against a task.

Give a duration (30m, 2h, 1h30m) ending at --end or now, or an explicit
--start and optional --end. Times are RFC 3339 or the display format.

Examples:
  pt log add 3 45m
  pt log add 3 --start "2024-05-01 09:00:00" --end "2024-05-01 11:30:00"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewLogAddCommand(app, opts)
		}),
	}
	addCmd.Flags().StringVar(&opts.Start, "start", "", "Interval start")
	addCmd.Flags().StringVar(&opts.End, "end", "", "Interval end (default: now)")

	logCmd.AddCommand(addCmd)
	return logCmd
}

func (r *RootCommand) timerCommand() *cobra.Command {
	timerCmd := &cobra.Command{
		Use:   "timer",
		Short: "Start and stop live timers",
	}

	for _, action := range []struct{ name, short string }{
		{"start", "Start timing a task"},
		{"stop", "Stop a running timer and record the time"},
		{"status", "Show the timer state of a task"},
	} {
		action := action
		timerCmd.AddCommand(&cobra.Command{
			Use:   action.name + " <task-id>",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: r.runWithApp(true, func(app *App) Command {
				return NewTimerCommand(app, action.name)
			}),
		})
	}
	return timerCmd
}

func (r *RootCommand) invoiceCommand() *cobra.Command {
	invoiceCmd := &cobra.Command{
		Use:   "invoice",
		Short: "Bill projects",
	}

	var input services.InvoiceInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a draft invoice",
		Long: `Create an invoice for a project. Status defaults to draft and the name
to one derived from the creation time.

Example:
  pt invoice add --project 1 --amount 1200 --due 2024-07-01`,
		Args: cobra.NoArgs,
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewInvoiceAddCommand(app, input)
		}),
	}
	addCmd.Flags().Int64VarP(&input.ProjectID, "project", "p", 0, "Project id (required)")
	addCmd.Flags().Float64Var(&input.Amount, "amount", 0, "Amount (required)")
	addCmd.Flags().StringVar(&input.DueDate, "due", "", "Due date, YYYY-MM-DD (required)")
	addCmd.Flags().StringVar(&input.Name, "name", "", "Invoice name")
	addCmd.Flags().StringVar(&input.Status, "status", "", "draft, sent, paid or overdue (default: draft)")
	addCmd.Flags().StringVar(&input.PaymentDate, "paid", "", "Payment date, YYYY-MM-DD")
	addCmd.Flags().Int64Var(&input.ClientID, "client", 0, "Client id")
	_ = addCmd.MarkFlagRequired("project")

	var projectID int64
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices with the outstanding total",
		Args:  cobra.NoArgs,
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewInvoiceListCommand(app, projectID)
		}),
	}
	listCmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Only invoices of this project")

	showCmd := &cobra.Command{
		Use:   "show <invoice-id>",
		Short: "Show one invoice",
		Args:  cobra.ExactArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewInvoiceShowCommand(app)
		}),
	}

	updateCmd := &cobra.Command{
		Use:   "update <invoice-id>",
		Short: "Change invoice fields",
		Args:  cobra.ExactArgs(1),
	}
	updateCmd.Flags().String("name", "", "Invoice name")
	updateCmd.Flags().Float64("amount", 0, "Amount")
	updateCmd.Flags().String("status", "", "draft, sent, paid or overdue")
	updateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	updateCmd.Flags().String("paid", "", "Payment date (YYYY-MM-DD)")
	updateCmd.Flags().Int64("client", 0, "Client id")
	updateCmd.Flags().Int64P("project", "p", 0, "Project id")
	updateCmd.RunE = r.runWithApp(true, func(app *App) Command {
		set := setFlags{updateCmd.Flags()}
		return NewInvoiceUpdateCommand(app, services.InvoiceUpdate{
			Name:        set.str("name"),
			Amount:      set.f64("amount"),
			Status:      set.str("status"),
			DueDate:     set.str("due"),
			PaymentDate: set.str("paid"),
			ClientID:    set.i64("client"),
			ProjectID:   set.i64("project"),
		})
	})

	var paidOn string
	payCmd := &cobra.Command{
		Use:   "pay <invoice-id>",
		Short: "Record payment of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewInvoiceActionCommand(app, "pay", paidOn)
		}),
	}
	payCmd.Flags().StringVar(&paidOn, "date", "", "Payment date, YYYY-MM-DD (default: today)")

	invoiceCmd.AddCommand(addCmd, listCmd, showCmd, updateCmd, payCmd)
	for _, action := range []struct{ name, short string }{
		{"send", "Mark an invoice as sent"},
		{"delete", "Delete an invoice"},
	} {
		action := action
		invoiceCmd.AddCommand(&cobra.Command{
			Use:   action.name + " <invoice-id>",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: r.runWithApp(true, func(app *App) Command {
				return NewInvoiceActionCommand(app, action.name, "")
			}),
		})
	}
	return invoiceCmd
}

func (r *RootCommand) reportCommand() *cobra.Command {
	var format string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Time reports",
	}
	reportCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml, csv (overrides PT_REPORT_FORMAT)")

	projectCmd := &cobra.Command{
		Use:   "project <project-id>",
		Short: "Report time for the tasks of one project",
		Args:  cobra.ExactArgs(1),
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewReportCommand(app, false, format)
		}),
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Report time across every task",
		Args:  cobra.NoArgs,
		RunE: r.runWithApp(true, func(app *App) Command {
			return NewReportCommand(app, true, format)
		}),
	}

	reportCmd.AddCommand(projectCmd, allCmd)
	return reportCmd
}

func (r *RootCommand) serveCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve reports, timers, catalog edits and invoices over HTTP until interrupted.

Routes:
  GET    /health
  GET    /api/v1/time-report
  GET    /api/v1/projects/:id/time-report
  GET    /api/v1/tasks/:id/timer
  POST   /api/v1/tasks/:id/timer/start
  POST   /api/v1/tasks/:id/timer/stop
  GET    /api/v1/projects/:id
  PATCH  /api/v1/projects/:id
  DELETE /api/v1/projects/:id
  PATCH  /api/v1/tasks/:id
  PUT    /api/v1/tasks/:id/status
  DELETE /api/v1/tasks/:id
  GET    /api/v1/invoices?project=
  POST   /api/v1/invoices
  GET    /api/v1/invoices/:id
  PATCH  /api/v1/invoices/:id
  DELETE /api/v1/invoices/:id
  POST   /api/v1/invoices/:id/send
  POST   /api/v1/invoices/:id/pay`,
		Args: cobra.NoArgs,
		// long running, so no application timeout
		RunE: r.runWithApp(false, func(app *App) Command {
			return NewServeCommand(app)
		}),
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides PT_SERVER_ADDR)")
	return serveCmd
}

// runWithApp loads configuration, opens the API and runs the handler
func (r *RootCommand) runWithApp(withTimeout bool, build func(app *App) Command) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := r.setup(cmd)
		if err != nil {
			return err
		}
		defer r.teardown(app)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if withTimeout {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.getAppTimeout())
			defer cancel()
		}

		return build(app).Execute(ctx, args)
	}
}

// setup loads configuration with flag overrides and opens the business API
func (r *RootCommand) setup(cmd *cobra.Command) (*App, error) {
	cfg, err := config.NewLoader().LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	businessAPI, err := r.factory(cfg, logger)
	if err != nil {
		logger.Close()
		return nil, err
	}

	r.config = cfg
	logger.Debug("command started", logging.F("command", cmd.CommandPath()))

	return NewApp(businessAPI, cfg, logger, r.out), nil
}

func (r *RootCommand) teardown(app *App) {
	if err := app.businessAPI.Close(); err != nil {
		app.logger.Warn("failed to close store", logging.F("error", err))
	}
	app.logger.Close()
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// setFlags returns flag values only for flags set on the command line
type setFlags struct {
	flags *pflag.FlagSet
}

func (s setFlags) str(name string) *string {
	if !s.flags.Changed(name) {
		return nil
	}
	v, _ := s.flags.GetString(name)
	return &v
}

func (s setFlags) f64(name string) *float64 {
	if !s.flags.Changed(name) {
		return nil
	}
	v, _ := s.flags.GetFloat64(name)
	return &v
}

func (s setFlags) i64(name string) *int64 {
	if !s.flags.Changed(name) {
		return nil
	}
	v, _ := s.flags.GetInt64(name)
	return &v
}

// overridesFromFlags collects explicitly set flags
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	o.ConfigFile = str("config")
	o.Backend = str("backend")
	o.DBDriver = str("db-driver")
	o.DBDSN = str("db-dsn")
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.DBQueryTimeout = dur("db-query-timeout")
	o.DBWriteTimeout = dur("db-write-timeout")
	o.RecentLogLimit = num("recent-logs")
	o.FetchConcurrency = num("fetch-concurrency")
	o.LogLevel = str("log-level")
	o.LogFile = str("log-file")
	o.Timeout = dur("app-timeout")
	if flags.Lookup("addr") != nil {
		o.ServerAddr = str("addr")
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}

	return o
}

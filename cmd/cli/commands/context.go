package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/internal/config"
	"github.com/jaeyoung-onebird/workproof/pkg/auth"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/geocoder"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/gmailclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/sheetsclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/db"
	"github.com/jaeyoung-onebird/workproof/pkg/i18n"
	"github.com/jaeyoung-onebird/workproof/pkg/postgres"
	"github.com/jaeyoung-onebird/workproof/pkg/sheetssql"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env        string
	Cfg        *config.Config
	Auth       *auth.Store
	API        *workproof.Client
	Geocoder   *geocoder.Geocoder
	Translator *i18n.Translator
	Registry   *prometheus.Registry
	Logger     *zap.Logger
	Ctx        context.Context

	// Postgres is the pool opened for the postgres storage backend, nil otherwise
	Postgres *postgres.DB

	// Current is the list last shown, paged by "next" and "prev" in an interactive session
	Current Pageable
	// Applications is the org application list last shown, kept for optimistic removal
	Applications *applicationsView
	// Events is the org event list last shown
	Events *eventsView

	input  *bufio.Scanner
	sheets *sheetsclient.Client
	gmail  *gmailclient.Client
	ledger db.PayrollLedger
}

// Pageable is a loaded list that can move between pages and render itself
type Pageable interface {
	NextPage(ctx context.Context) (bool, error)
	PrevPage(ctx context.Context) (bool, error)
	Render()
}

// PageSize returns the configured list page size
func (app *AppContext) PageSize() int {
	if app.Cfg == nil {
		return 0
	}
	return app.Cfg.PageSize
}

// OrgID returns the organization the current user acts for, or override when set
func (app *AppContext) OrgID(override int64) (int64, error) {
	if override > 0 {
		return override, nil
	}

	user, err := app.Auth.RequireAuth()
	if err != nil {
		return 0, err
	}
	if user.OrgID == 0 {
		return 0, fmt.Errorf("the current account has no organization; pass --org")
	}
	return user.OrgID, nil
}

// googleClients connects the sheets and gmail clients on first use
func (app *AppContext) googleClients() error {
	if app.sheets != nil {
		return nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	sheets, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.Logger.Info("Initializing gmail client")
	gmail, err := gmailclient.NewClient(app.Ctx, oauthCfg, sheets.Token(), app.Cfg.PayrollExport.GmailSender)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}

	app.sheets = sheets
	app.gmail = gmail
	return nil
}

// Ledger opens the configured payroll ledger. dryRun uses an in-memory sheet instead.
func (app *AppContext) Ledger(dryRun bool) (db.PayrollLedger, error) {
	if dryRun {
		return db.Open(sheetssql.NewMemoryClient(), "dry-run")
	}
	if app.ledger != nil {
		return app.ledger, nil
	}

	var ledger db.PayrollLedger
	var err error
	if app.Cfg.PayrollExport.Ledger == "postgres" {
		ledger, err = app.postgresLedger()
	} else {
		ledger, err = app.sheetsLedger()
	}
	if err != nil {
		return nil, err
	}

	app.ledger = ledger
	return ledger, nil
}

func (app *AppContext) sheetsLedger() (*db.DB, error) {
	spreadsheetID := app.Cfg.PayrollExport.SpreadsheetID
	if spreadsheetID == "" {
		return nil, errors.New("payrollExport.spreadsheetID is not configured")
	}

	if err := app.googleClients(); err != nil {
		return nil, err
	}

	app.Logger.Info("Connecting to payroll spreadsheet", zap.String("spreadsheet_id", spreadsheetID))
	return db.Open(app.sheets, spreadsheetID)
}

// postgresLedger reuses the storage pool when there is one
func (app *AppContext) postgresLedger() (*postgres.DB, error) {
	if app.Postgres != nil {
		return app.Postgres, nil
	}

	app.Logger.Info("Connecting to payroll database")
	pg, err := postgres.NewDB(app.Ctx, app.Cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.RunMigrations(app.Ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Postgres = pg
	return pg, nil
}

// Mailer returns the gmail client used for payslips
func (app *AppContext) Mailer() (*gmailclient.Client, error) {
	if err := app.googleClients(); err != nil {
		return nil, err
	}
	return app.gmail, nil
}

// ErrorMessage renders err for the terminal: the server's detail when there is one,
// otherwise a localized message.
func (app *AppContext) ErrorMessage(err error) string {
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return app.Translator.T("error.not_authenticated", nil)
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail == "" && apiErr.StatusCode == http.StatusForbidden {
			return app.Translator.T("error.forbidden", nil)
		}
		return apiErr.UserMessage()
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return app.Translator.T("error.network", nil)
	}

	return err.Error()
}

func (app *AppContext) now() time.Time {
	return time.Now()
}

// Input returns the stdin scanner shared by prompts and the interactive session
func (app *AppContext) Input() *bufio.Scanner {
	if app.input == nil {
		app.input = bufio.NewScanner(os.Stdin)
	}
	return app.input
}

// prompt asks for one line of input
func (app *AppContext) prompt(label string) (string, error) {
	fmt.Print(label)
	scanner := app.Input()
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("error reading input: %w", err)
		}
		return "", errors.New("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

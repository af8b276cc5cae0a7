package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/cmd/cli/commands"
	"github.com/jaeyoung-onebird/workproof/internal/config"
	"github.com/jaeyoung-onebird/workproof/pkg/auth"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/geocoder"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/i18n"
	"github.com/jaeyoung-onebird/workproof/pkg/postgres"
	"github.com/jaeyoung-onebird/workproof/pkg/storage"
	"github.com/jaeyoung-onebird/workproof/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}

	// closeRedis releases the redis storage backend when one was opened
	closeRedis = func() {}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wpt",
		Short: "WorkProof CLI - short-term jobs, attendance and WPT rewards",
		Long: `A CLI client for the WorkProof Chain platform: workers find and apply to events,
organizations post events and manage applicants, and admins verify organizations.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			cleanup()
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects workproof_config.<env>.yaml and its session)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	// Add all commands
	rootCmd.AddCommand(commands.LoginCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.LogoutCmd(app))
	rootCmd.AddCommand(commands.WhoAmICmd(app))
	rootCmd.AddCommand(commands.WorkerCmd(app))
	rootCmd.AddCommand(commands.OrgCmd(app))
	rootCmd.AddCommand(commands.AdminCmd(app))
	rootCmd.AddCommand(commands.PayrollCmd(app))
	rootCmd.AddCommand(commands.DeployCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		if app.Translator != nil {
			fmt.Fprintf(os.Stderr, "❌ %s\n", app.ErrorMessage(err))
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		cleanup()
		os.Exit(1)
	}
}

// cleanup closes storage connections and flushes the logger
func cleanup() {
	closeRedis()
	if app.Postgres != nil {
		app.Postgres.Close()
		app.Postgres = nil
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}

// initApp sets up logger, config, session storage and API clients
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("api_base_url", app.Cfg.APIBaseURL),
		zap.String("storage", app.Cfg.Storage.Backend))

	app.Translator = i18n.NewTranslator(app.Cfg.Locale, app.Logger)

	// Open session storage
	store, err := openStorage(app.Ctx, app.Cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", app.Cfg.Storage.Backend, err)
	}

	app.Auth = auth.NewStore(store, app.Logger)
	if err := app.Auth.Rehydrate(app.Ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	// Initialize API client
	app.Registry = prometheus.NewRegistry()
	api := apiclient.New(apiclient.Options{
		BaseURL:          app.Cfg.APIBaseURL,
		Timeout:          app.Cfg.RequestTimeout,
		Tokens:           app.Auth.Tokens(),
		Logger:           app.Logger,
		Metrics:          apiclient.NewMetrics(app.Registry),
		OnSessionExpired: app.Auth.HandleSessionExpired,
		Translator:       app.Translator,
	})
	app.API = workproof.NewClient(api)
	app.Geocoder = geocoder.New(app.Cfg.KakaoRestKey, "", app.Logger)

	app.Logger.Debug("Application initialized")
	return nil
}

// openStorage connects the configured session backend
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Backend {
	case "redis":
		app.Logger.Debug("Connecting to redis", zap.String("addr", cfg.RedisAddr))
		rs, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Env:      env,
		})
		if err != nil {
			return nil, err
		}
		closeRedis = func() { rs.Close() }
		return rs, nil

	case "postgres":
		app.Logger.Debug("Connecting to postgres")
		pg, err := postgres.NewDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Postgres = pg
		return postgres.NewStorage(pg, env), nil

	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = storage.DefaultDir(env); err != nil {
				return nil, err
			}
		}
		fs, err := storage.NewFileStorage(dir)
		if err != nil {
			return nil, err
		}
		app.Logger.Debug("Using file storage", zap.String("path", fs.Path()))
		return fs, nil
	}
}

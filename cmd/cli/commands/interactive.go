package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (log in once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against one session.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands, 'next' and 'prev' to page the last list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr == "" {
				metricsAddr = app.Cfg.MetricsAddr
			}
			if metricsAddr != "" {
				stop := serveMetrics(app, metricsAddr)
				defer stop()
			}

			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			rootCmd := cmd.Root()
			scanner := app.Input()

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				// Parse command (respecting quotes)
				parts, err := parseCommandLine(line)
				if err != nil {
					fmt.Printf("❌ Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}

				switch parts[0] {
				case "exit", "quit":
					fmt.Println("👋 Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(rootCmd)
					continue
				case "next", "prev":
					if err := pageCurrent(app, parts[0] == "next"); err != nil {
						fmt.Printf("❌ Error: %s\n\n", app.ErrorMessage(err))
					}
					continue
				}

				if err := runInteractive(rootCmd, parts); err != nil {
					fmt.Printf("❌ Error: %s\n\n", app.ErrorMessage(err))
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (defaults to metricsAddr in the config)")
	return cmd
}

// runInteractive resolves parts against the command tree and runs the command's RunE
// directly, bypassing Execute so PersistentPreRunE does not set the app up again.
func runInteractive(rootCmd *cobra.Command, parts []string) error {
	targetCmd, cmdArgs, err := rootCmd.Find(parts)
	if err != nil || targetCmd == rootCmd || isInteractiveOnly(targetCmd) {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", strings.Join(parts, " "))
	}

	if !targetCmd.Runnable() {
		printInteractiveHelp(targetCmd)
		return nil
	}

	// Reset command flags and args
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
			return
		}
		flag.Value.Set(flag.DefValue)
	})

	if err := targetCmd.ParseFlags(cmdArgs); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	if err := targetCmd.ValidateRequiredFlags(); err != nil {
		return err
	}
	if err := targetCmd.ValidateFlagGroups(); err != nil {
		return err
	}

	// Get non-flag args after parsing flags
	cmdArgs = targetCmd.Flags().Args()

	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
			return err
		}
	}

	if targetCmd.RunE != nil {
		return targetCmd.RunE(targetCmd, cmdArgs)
	}
	targetCmd.Run(targetCmd, cmdArgs)
	return nil
}

func isInteractiveOnly(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "interactive", "completion", "help":
		return true
	}
	return false
}

// pageCurrent moves the last shown list one page and renders it
func pageCurrent(app *AppContext, forward bool) error {
	if app.Current == nil {
		return errors.New("no list to page; run a list command first")
	}

	move := app.Current.PrevPage
	if forward {
		move = app.Current.NextPage
	}

	moved, err := move(app.Ctx)
	if err != nil {
		return err
	}
	if !moved {
		fmt.Print("Already on the ")
		if forward {
			fmt.Println("last page")
		} else {
			fmt.Println("first page")
		}
		fmt.Println()
		return nil
	}

	app.Current.Render()
	return nil
}

// serveMetrics exposes the client metrics registry on addr until the returned stop is called
func serveMetrics(app *AppContext, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Warn("Metrics server stopped", zap.Error(err))
		}
	}()
	app.Logger.Info("Serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

// leafCommands lists every runnable command under cmd by its path below the root
func leafCommands(cmd *cobra.Command) []*cobra.Command {
	var leaves []*cobra.Command
	for _, sub := range cmd.Commands() {
		if isInteractiveOnly(sub) || sub.Hidden {
			continue
		}
		if sub.Runnable() {
			leaves = append(leaves, sub)
		}
		leaves = append(leaves, leafCommands(sub)...)
	}
	return leaves
}

func printInteractiveHelp(cmd *cobra.Command) {
	fmt.Println("\nAvailable commands:")

	leaves := leafCommands(cmd)
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].CommandPath() < leaves[j].CommandPath()
	})

	rootName := cmd.Root().Name() + " "
	for _, leaf := range leaves {
		use := strings.TrimPrefix(leaf.CommandPath(), rootName)
		if _, rest, ok := strings.Cut(leaf.Use, " "); ok {
			use += " " + rest
		}
		fmt.Printf("  %-40s %s\n", use, leaf.Short)
	}

	if cmd == cmd.Root() {
		fmt.Println("\n  next, prev                               Page the last list")
		fmt.Println("  help                                     Show this help message")
		fmt.Println("  exit, quit                               Exit the interactive session")
	}
	fmt.Println()
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/services"
)

// PayrollCmd creates the payroll command group
func PayrollCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Export payroll to the ledger spreadsheet and mail payslips",
	}

	cmd.PersistentFlags().Int64("org", 0, "Organization ID (defaults to the logged-in account's organization)")
	cmd.PersistentFlags().Int64("event", 0, "Only records for this event")
	cmd.PersistentFlags().String("status", "", "Only records with this payment status: pending, paid, failed")
	cmd.PersistentFlags().Bool("dry-run", false, "Use an in-memory sheet and print instead of writing or mailing")

	cmd.AddCommand(payrollExportCmd(app), payrollPayslipsCmd(app))
	return cmd
}

type payrollFlags struct {
	orgID  int64
	filter services.PayrollFilter
	dryRun bool
}

func readPayrollFlags(app *AppContext, cmd *cobra.Command) (*payrollFlags, error) {
	override, _ := cmd.Flags().GetInt64("org")
	eventID, _ := cmd.Flags().GetInt64("event")
	status, _ := cmd.Flags().GetString("status")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	id, err := app.OrgID(override)
	if err != nil {
		return nil, err
	}

	return &payrollFlags{
		orgID:  id,
		filter: services.PayrollFilter{EventID: eventID, PaymentStatus: model.PaymentStatus(status)},
		dryRun: dryRun,
	}, nil
}

func payrollExportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Append new payroll records to the payroll_export sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := readPayrollFlags(app, cmd)
			if err != nil {
				return err
			}

			ledger, err := app.Ledger(flags.dryRun)
			if err != nil {
				return err
			}

			result, err := services.ExportPayroll(app.Ctx, app.API, ledger, app.Logger, flags.orgID, flags.filter, app.PageSize(), app.now())
			if err != nil {
				return err
			}

			if flags.dryRun {
				fmt.Printf("\n[dry run] nothing was written\n")
			}
			fmt.Printf("\n✓ %s\n\n", app.Translator.T("payroll.exported", map[string]any{"Count": len(result.Exported)}))

			var total int64
			for _, e := range result.Exported {
				total += e.NetPay
				fmt.Printf("  ✓ #%-5d %-24s %-16s net %s\n", e.PayrollID, e.EventTitle, e.WorkerName, format.Currency(e.NetPay))
			}
			if len(result.Exported) > 0 {
				fmt.Printf("\nNet total: %s\n", format.Currency(total))
			}
			if result.Skipped > 0 {
				fmt.Printf("Skipped %d records already in the sheet\n", result.Skipped)
			}
			fmt.Println()
			return nil
		},
	}
}

// printMailer prints payslips instead of sending them
type printMailer struct{}

func (printMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	fmt.Printf("  → %s: %s\n", to, subject)
	return nil
}

func payrollPayslipsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "payslips",
		Short: "Email a payslip to each worker not yet mailed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := readPayrollFlags(app, cmd)
			if err != nil {
				return err
			}

			ledger, err := app.Ledger(flags.dryRun)
			if err != nil {
				return err
			}

			var mailer services.Mailer = printMailer{}
			if !flags.dryRun {
				gmail, err := app.Mailer()
				if err != nil {
					return err
				}
				mailer = gmail
			} else {
				fmt.Printf("\n[dry run] payslips are printed, not sent\n\n")
			}

			result, err := services.SendPayslips(app.Ctx, app.API, ledger, mailer, app.Translator, app.Logger,
				flags.orgID, flags.filter, app.PageSize(), app.now)
			if result != nil {
				printPayslipResult(result)
			}
			if err != nil {
				return err
			}

			app.Logger.Debug("Payslip run finished", zap.Int("sent", len(result.Sent)))
			return nil
		},
	}
}

func printPayslipResult(result *services.PayslipResult) {
	fmt.Printf("\n✓ Payslip run completed!\n\n")

	if len(result.Sent) > 0 {
		fmt.Printf("Payslips sent to %d workers:\n", len(result.Sent))
		for _, s := range result.Sent {
			fmt.Printf("  ✓ %s (%s)\n", s.WorkerName, s.Email)
		}
		fmt.Println()
	}

	if len(result.Failed) > 0 {
		fmt.Printf("⚠️  Failed to send %d payslips:\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Printf("  ✗ #%d %s (%s): %s\n", f.PayrollID, f.WorkerName, f.Email, f.Reason)
		}
		fmt.Println()
	}

	if result.Skipped > 0 {
		fmt.Printf("Skipped %d payslips already sent\n\n", result.Skipped)
	}

	if len(result.Sent) == 0 && len(result.Failed) == 0 {
		fmt.Println("No new payslips to send.")
		fmt.Println()
	}
}

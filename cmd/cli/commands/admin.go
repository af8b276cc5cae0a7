package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/core/gamification"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
	"github.com/jaeyoung-onebird/workproof/pkg/core/services"
)

// AdminCmd creates the admin command group
func AdminCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration: organizations, users and workers",
	}

	cmd.AddCommand(
		adminDashboardCmd(app),
		adminOrgsCmd(app),
		adminActionCmd(app, "verify <org_id>", "Verify an organization", "org_id", "Organization #%d verified",
			(*workproof.Client).VerifyOrganization),
		adminActionCmd(app, "reject-org <org_id>", "Reject an organization", "org_id", "Organization #%d rejected",
			(*workproof.Client).RejectOrganization),
		adminUsersCmd(app),
		adminActionCmd(app, "block <user_id>", "Block a user", "user_id", "User #%d blocked",
			(*workproof.Client).BlockUser),
		adminActionCmd(app, "unblock <user_id>", "Unblock a user", "user_id", "User #%d unblocked",
			(*workproof.Client).UnblockUser),
		adminSetRoleCmd(app),
		adminWorkersCmd(app),
		adminWorkScoreCmd(app),
	)
	return cmd
}

func adminDashboardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show platform counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := services.LoadAdminDashboard(app.Ctx, app.API, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nPlatform overview\n\n")
			fmt.Printf("Users:          %s (%s workers)\n", format.Number(int64(stats.TotalUsers)), format.Number(int64(stats.TotalWorkers)))
			fmt.Printf("Organizations:  %s (%s pending)\n", format.Number(int64(stats.TotalOrganizations)), format.Number(int64(stats.PendingOrganizations)))
			fmt.Printf("Events:         %s (%s active)\n", format.Number(int64(stats.TotalEvents)), format.Number(int64(stats.ActiveEvents)))
			fmt.Printf("Payroll total:  %s\n\n", format.Currency(stats.TotalPayroll))
			return nil
		},
	}
}

func orgRow(o model.Organization) string {
	return fmt.Sprintf("#%-5d %-28s %-10s followers %-5d %s", o.ID, o.Name, o.VerificationStatus, o.FollowerCount, format.DateOf(o.CreatedAt))
}

func adminOrgsCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "Organizations", app.API.Organizations, flags, orgSorters, orgRow)
			return err
		},
	}

	flags.registerStatus(cmd, "verification_status", "Filter by verification status: pending, verified, rejected", pager.SortFields(orgSorters))
	return cmd
}

// adminActionCmd builds a command that posts one admin action on an id
func adminActionCmd(
	app *AppContext,
	use, short, idName, done string,
	action func(*workproof.Client, context.Context, int64) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], idName)
			if err != nil {
				return err
			}

			if err := action(app.API, app.Ctx, id); err != nil {
				return err
			}

			fmt.Printf("\n✓ "+done+"\n\n", id)
			return nil
		},
	}
}

func userRow(u model.User) string {
	status := "active"
	if u.IsBlocked {
		status = "blocked"
	}
	return fmt.Sprintf("#%-5d %-20s %-28s %-7s %s", u.ID, u.Name, u.Email, u.Role, status)
}

func adminUsersCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "Users", app.API.Users, flags, userSorters, userRow)
			return err
		},
	}

	flags.registerStatus(cmd, "role", "Filter by role: worker, org, admin", pager.SortFields(userSorters))
	return cmd
}

func adminSetRoleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user_id> <role>",
		Short: "Change a user's role (worker, org, admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user_id")
			if err != nil {
				return err
			}
			role := model.Role(args[1])

			if err := app.API.SetUserRole(app.Ctx, userID, role); err != nil {
				return err
			}

			fmt.Printf("\n✓ User #%d is now %s\n\n", userID, role)
			return nil
		},
	}
}

func workerSummaryRow(w model.WorkerSummary) string {
	return fmt.Sprintf("#%-5d %-16s %-16s Lv.%-2d trust %.1f  shifts %d", w.ID, w.Name, w.Nickname, w.Level, w.TrustScore, w.TotalWorked)
}

func adminWorkersCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "workers",
		Short: "List workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "Workers", app.API.Workers, flags, workerSorters, workerSummaryRow)
			return err
		},
	}

	flags.register(cmd, "", pager.SortFields(workerSorters))
	return cmd
}

func adminWorkScoreCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "workscore <worker_id>",
		Short: "Show a worker's WorkScore breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := parseID(args[0], "worker_id")
			if err != nil {
				return err
			}

			score, err := app.API.WorkScore(app.Ctx, workerID)
			if err != nil {
				return err
			}

			fmt.Printf("\nWorkScore for worker #%d: %.1f (%s)\n\n", workerID, score.Score, gamification.WorkScoreGrade(score.Score))
			fmt.Printf("  Attendance:   %5.1f%%\n", score.AttendanceRate)
			fmt.Printf("  Punctuality:  %5.1f%%\n", score.PunctualityRate)
			fmt.Printf("  Cancellation: %5.1f%%\n\n", score.CancellationRate)
			return nil
		},
	}
}

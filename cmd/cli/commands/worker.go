package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/core/gamification"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
	"github.com/jaeyoung-onebird/workproof/pkg/core/services"
)

const progressBarWidth = 20

func parseID(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", name)
	}
	return id, nil
}

func eventRow(e model.Event) string {
	full := ""
	if e.IsFull() {
		full = " [full]"
	}
	return fmt.Sprintf("#%-5d %-30s %s  %s/h  %d/%d  %s%s",
		e.ID, e.Title, format.DateTimeOf(e.StartsAt), format.Currency(e.HourlyWage),
		e.FilledCount, e.TotalHeadcount, e.Status, full)
}

func applicationRow(a model.Application) string {
	return fmt.Sprintf("#%-5d %-24s %-20s %-10s %s  %s",
		a.ID, a.EventTitle, a.WorkerName, a.Position, a.Status, format.DateTimeOf(a.AppliedAt))
}

func payrollRow(p model.PayrollRecord) string {
	return fmt.Sprintf("#%-5d %-24s %-16s %8s  net %s  %s",
		p.ID, p.EventTitle, p.WorkerName, format.Minutes(p.WorkedMinutes), format.Currency(p.NetPay), p.PaymentStatus)
}

func followRow(f model.Follow) string {
	name := f.OrgName
	if name == "" {
		name = f.WorkerName
	}
	return fmt.Sprintf("%-24s since %s", name, format.DateOf(f.CreatedAt))
}

func printSchedule(items []model.ScheduleItem) {
	if len(items) == 0 {
		fmt.Println("  No upcoming shifts.")
		return
	}
	for _, item := range items {
		status := ""
		if a := item.Attendance; a != nil {
			switch {
			case a.CheckOutAt != nil:
				status = " ✓ done"
			case a.CheckInAt != nil:
				status = " ● checked in"
			}
		}
		fmt.Printf("  %s - %s  #%d %s (%s) @ %s%s\n",
			format.DateTimeOf(item.StartsAt), format.DateTimeOf(item.EndsAt),
			item.EventID, item.EventTitle, item.OrgName, item.Location, status)
	}
}

func printBadges(badges []model.Badge) {
	if len(badges) == 0 {
		fmt.Println("  No badges yet.")
		return
	}
	for _, b := range badges {
		fmt.Printf("  🏅 %s (%s)", b.Name, format.DateOf(b.IssuedAt))
		if b.TokenID != "" {
			fmt.Printf(" token %s", b.TokenID)
		}
		fmt.Println()
	}
}

// WorkerCmd creates the worker command group
func WorkerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Worker commands: events, applications, attendance and rewards",
	}

	cmd.AddCommand(
		workerDashboardCmd(app),
		workerEventsCmd(app),
		workerEventCmd(app),
		workerApplyCmd(app),
		workerApplicationsCmd(app),
		workerCancelCmd(app),
		workerScheduleCmd(app),
		workerPayrollCmd(app),
		workerCheckInCmd(app),
		workerCheckOutCmd(app),
		workerFollowCmd(app, true),
		workerFollowCmd(app, false),
		workerFollowingCmd(app),
		workerProfileCmd(app),
		workerBadgesCmd(app),
	)
	return cmd
}

func workerDashboardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show level, streak, WPT balance, schedule and badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := services.LoadWorkerDashboard(app.Ctx, app.API, app.Logger)
			if err != nil {
				return err
			}

			tr := app.Translator
			m := dash.Metrics
			p := dash.Progress

			fmt.Printf("\n👋 %s\n\n", dash.Profile.Nickname)
			fmt.Printf("%s  %s\n", tr.T("level.label", map[string]any{"Level": p.Level}), gamification.LevelBadgeLabel(tr, p.Level))
			fmt.Printf("%s %d%%\n", gamification.Bar(p, progressBarWidth), p.Percent)
			if p.IsMax {
				fmt.Println(tr.T("level.max", nil))
			} else {
				fmt.Println(tr.T("level.next", map[string]any{"Remaining": p.Remaining()}))
			}
			fmt.Printf("🔥 %s (best %d)\n", gamification.StreakLabel(tr, m.StreakDays), m.LongestStreak)
			fmt.Printf("WPT:         %s\n", format.WPT(m.WPTBalance))
			fmt.Printf("Shifts:      %s\n", format.Number(int64(m.TotalWorked)))
			fmt.Printf("Trust score: %.1f\n", m.TrustScore)

			fmt.Printf("\nUpcoming shifts:\n")
			printSchedule(dash.Schedule)

			fmt.Printf("\nBadges:\n")
			printBadges(dash.Badges)
			fmt.Println()
			return nil
		},
	}
}

func workerEventsCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse open events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "Open events", app.API.OpenEvents, flags, eventSorters, eventRow)
			return err
		},
	}

	flags.register(cmd, "", pager.SortFields(eventSorters))
	return cmd
}

func workerEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "event <event_id>",
		Short: "Show one event with its positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}

			event, err := app.API.Event(app.Ctx, eventID)
			if err != nil {
				return err
			}

			fmt.Printf("\n#%d %s\n", event.ID, event.Title)
			if event.OrgName != "" {
				fmt.Printf("Host:     %s\n", event.OrgName)
			}
			fmt.Printf("When:     %s - %s\n", format.DateTimeOf(event.StartsAt), format.DateTimeOf(event.EndsAt))
			fmt.Printf("Where:    %s\n", event.Location)
			fmt.Printf("Wage:     %s/h\n", format.Currency(event.HourlyWage))
			fmt.Printf("Status:   %s\n", event.Status)
			if event.Description != "" {
				fmt.Printf("\n%s\n", event.Description)
			}
			if len(event.Positions) > 0 {
				fmt.Printf("\nPositions:\n")
				for _, pos := range event.Positions {
					fmt.Printf("  %-16s %d/%d\n", pos.Name, pos.Filled, pos.Headcount)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

func workerApplyCmd(app *AppContext) *cobra.Command {
	var input model.ApplicationInput

	cmd := &cobra.Command{
		Use:   "apply <event_id>",
		Short: "Apply to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}
			input.EventID = eventID

			application, err := app.API.Apply(app.Ctx, input)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T("application.submitted", nil))
			fmt.Printf("Application #%d (%s)\n\n", application.ID, application.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Position, "position", "", "Position to apply for")
	cmd.Flags().StringVar(&input.Message, "message", "", "Message to the organization")
	return cmd
}

func workerApplicationsCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List your applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "My applications", app.API.MyApplications, flags, applicationSorters, applicationRow)
			return err
		},
	}

	flags.register(cmd, "Filter by status: pending, accepted, rejected, cancelled", pager.SortFields(applicationSorters))
	return cmd
}

func workerCancelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <application_id>",
		Short: "Cancel one of your applications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applicationID, err := parseID(args[0], "application_id")
			if err != nil {
				return err
			}

			if err := app.API.CancelApplication(app.Ctx, applicationID); err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n\n", app.Translator.T("application.cancelled", nil))
			return nil
		},
	}
}

func workerScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show your accepted shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.API.Schedule(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule (%d shifts):\n", len(items))
			printSchedule(items)
			fmt.Println()
			return nil
		},
	}
}

func workerPayrollCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "List your pay records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "My payroll", app.API.MyPayroll, flags, payrollSorters, payrollRow)
			return err
		},
	}

	flags.registerStatus(cmd, "payment_status", "Filter by payment status: pending, paid, failed", pager.SortFields(payrollSorters))
	return cmd
}

func workerCheckInCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <event_id>",
		Short: "Check in to a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}

			attendance, err := app.API.CheckIn(app.Ctx, eventID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T("attendance.checked_in", nil))
			if attendance.CheckInAt != nil {
				fmt.Printf("At: %s\n", format.DateTimeOf(*attendance.CheckInAt))
			}
			if attendance.IsLate {
				fmt.Printf("⚠️  Late by %s\n", format.Minutes(attendance.LateMinutes))
			}
			fmt.Println()
			return nil
		},
	}
}

func workerCheckOutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <event_id>",
		Short: "Check out of a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}

			attendance, err := app.API.CheckOut(app.Ctx, eventID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T("attendance.checked_out", nil))
			if attendance.CheckInAt != nil && attendance.CheckOutAt != nil {
				worked := int(attendance.CheckOutAt.Sub(*attendance.CheckInAt).Minutes())
				fmt.Printf("Worked: %s\n", format.Minutes(worked))
			}
			fmt.Println()
			return nil
		},
	}
}

func workerFollowCmd(app *AppContext, follow bool) *cobra.Command {
	use, short := "follow <org_id>", "Follow an organization"
	call := (*workproof.Client).Follow
	if !follow {
		use, short = "unfollow <org_id>", "Stop following an organization"
		call = (*workproof.Client).Unfollow
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseID(args[0], "org_id")
			if err != nil {
				return err
			}

			if err := call(app.API, app.Ctx, orgID); err != nil {
				return err
			}

			verb := "Following"
			if !follow {
				verb = "Unfollowed"
			}
			fmt.Printf("\n✓ %s organization #%d\n\n", verb, orgID)
			return nil
		},
	}
}

func workerFollowingCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "following",
		Short: "List organizations you follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := showList(app, "Following", app.API.Following, flags, followingSorters, followRow)
			return err
		},
	}

	flags.register(cmd, "", pager.SortFields(followingSorters))
	return cmd
}

func workerProfileCmd(app *AppContext) *cobra.Command {
	var input workproof.ProfileInput
	var regions, jobTypes string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile, or update it when --nickname is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile *model.WorkerProfile
			var err error

			if input.Nickname != "" {
				input.PreferredRegions = splitList(regions)
				input.PreferredJobTypes = splitList(jobTypes)
				profile, err = app.API.UpdateWorkerProfile(app.Ctx, input)
				if err == nil {
					fmt.Printf("\n✓ Profile updated\n")
				}
			} else {
				profile, err = app.API.WorkerProfile(app.Ctx)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", profile.Nickname)
			fmt.Printf("Trust score: %.1f\n", profile.TrustScore)
			if len(profile.PreferredRegions) > 0 {
				fmt.Printf("Regions:     %s\n", strings.Join(profile.PreferredRegions, ", "))
			}
			if len(profile.PreferredJobTypes) > 0 {
				fmt.Printf("Job types:   %s\n", strings.Join(profile.PreferredJobTypes, ", "))
			}
			if profile.WalletAddress != "" {
				fmt.Printf("Wallet:      %s\n", profile.WalletAddress)
			}
			if profile.Bio != "" {
				fmt.Printf("\n%s\n", profile.Bio)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Nickname, "nickname", "", "New nickname")
	cmd.Flags().StringVar(&input.Bio, "bio", "", "New bio")
	cmd.Flags().StringVar(&input.WalletAddress, "wallet", "", "Wallet address for WPT rewards")
	cmd.Flags().StringVar(&regions, "regions", "", "Comma separated preferred regions")
	cmd.Flags().StringVar(&jobTypes, "job-types", "", "Comma separated preferred job types")
	return cmd
}

func workerBadgesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "List your NFT badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			badges, err := app.API.Badges(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\nBadges (%d):\n", len(badges))
			printBadges(badges)
			fmt.Println()
			return nil
		},
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// orgFetch binds an org-scoped list endpoint to one organization
func orgFetch[T any](orgID int64, list func(context.Context, int64, pager.Query) (*apiclient.Page[T], error)) pager.FetchFunc[T] {
	return func(ctx context.Context, q pager.Query) (*apiclient.Page[T], error) {
		return list(ctx, orgID, q)
	}
}

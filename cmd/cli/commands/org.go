package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
	"github.com/jaeyoung-onebird/workproof/pkg/core/services"
)

// Accepted --starts/--ends layouts, tried in order, in local time
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD HH:MM)", value)
}

// parsePositions reads "name:count" pairs
func parsePositions(values []string) ([]model.Position, error) {
	positions := make([]model.Position, 0, len(values))
	for _, value := range values {
		name, count, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("invalid position %q (use name:count)", value)
		}
		headcount, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || headcount <= 0 {
			return nil, fmt.Errorf("invalid headcount in position %q", value)
		}
		positions = append(positions, model.Position{Name: strings.TrimSpace(name), Headcount: headcount})
	}
	return positions, nil
}

// Screen returns the underlying screen, nil when no list has been shown
func (v *listView[T]) Screen() *pager.Screen[T] {
	if v == nil {
		return nil
	}
	return v.screen
}

// OrgCmd creates the org command group
func OrgCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Organization commands: events, applications, attendance and payroll",
	}

	cmd.PersistentFlags().Int64("org", 0, "Organization ID (defaults to the logged-in account's organization)")

	cmd.AddCommand(
		orgEventsCmd(app),
		orgCreateEventCmd(app),
		orgDeleteEventCmd(app),
		orgApplicationsCmd(app),
		orgDecideCmd(app, true),
		orgDecideCmd(app, false),
		orgAttendanceCmd(app),
		orgFollowersCmd(app),
		orgInvitesCmd(app),
		orgInviteCmd(app),
		orgPayrollCmd(app),
	)
	return cmd
}

// orgID resolves --org against the session
func orgID(app *AppContext, cmd *cobra.Command) (int64, error) {
	override, _ := cmd.Flags().GetInt64("org")
	return app.OrgID(override)
}

func orgEventsCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the organization's events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("Events of organization #%d", id)
			view, err := showList(app, title, orgFetch(id, app.API.OrgEvents), flags, eventSorters, eventRow)
			if err != nil {
				return err
			}
			app.Events = view
			return nil
		},
	}

	flags.register(cmd, "Filter by status: draft, open, closed, completed, cancelled", pager.SortFields(eventSorters))
	return cmd
}

func orgCreateEventCmd(app *AppContext) *cobra.Command {
	var (
		input     model.EventInput
		address   string
		starts    string
		ends      string
		positions []string
		rule      string
		template  string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "create-event",
		Short: "Post an event, or one event per occurrence with --rrule or --template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}

			event := input
			if event.StartsAt, err = parseTime(starts); err != nil {
				return err
			}
			if event.EndsAt, err = parseTime(ends); err != nil {
				return err
			}
			if event.Positions, err = parsePositions(positions); err != nil {
				return err
			}

			if address != "" {
				err := app.Geocoder.Pick(app.Ctx, address, func(resolved string, lat, lng float64) {
					if event.Location == "" {
						event.Location = resolved
					}
					event.Latitude = lat
					event.Longitude = lng
				})
				if err != nil {
					return fmt.Errorf("failed to resolve address: %w", err)
				}
			}

			if template != "" {
				tmpl, ok := app.Cfg.Template(template)
				if !ok {
					return fmt.Errorf("unknown event template %q", template)
				}
				rule = tmpl.RRule
			}

			if rule == "" {
				created, err := app.API.CreateEvent(app.Ctx, id, event)
				if err != nil {
					return err
				}
				fmt.Printf("\n✓ Event created\n\n")
				fmt.Printf("  %s\n\n", eventRow(*created))
				return nil
			}

			created, failed, err := services.CreateRecurringEvents(app.Ctx, app.API, app.Logger, id, event, rule, limit)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Posted %d recurring events\n\n", len(created))
			for _, e := range created {
				fmt.Printf("  ✓ %s\n", eventRow(e))
			}
			if len(failed) > 0 {
				fmt.Printf("\n⚠️  Failed to post %d occurrences:\n", len(failed))
				for _, f := range failed {
					fmt.Printf("  ✗ %s: %s\n", format.DateTimeOf(f.Input.StartsAt), app.ErrorMessage(f.Err))
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&input.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&input.Location, "location", "", "Location name shown to workers")
	cmd.Flags().StringVar(&address, "address", "", "Address to geocode for coordinates")
	cmd.Flags().StringVar(&starts, "starts", "", "Start time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&ends, "ends", "", "End time (YYYY-MM-DD HH:MM)")
	cmd.Flags().Int64Var(&input.HourlyWage, "wage", 0, "Hourly wage in KRW")
	cmd.Flags().StringArrayVar(&positions, "position", nil, "Position as name:count (repeatable)")
	cmd.Flags().StringVar(&rule, "rrule", "", "Recurrence rule, e.g. FREQ=WEEKLY;COUNT=4")
	cmd.Flags().StringVar(&template, "template", "", "Named recurrence from eventTemplates in the config")
	cmd.Flags().IntVar(&limit, "limit", services.MaxOccurrences, "Most occurrences to post for an open-ended rule")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("starts")
	cmd.MarkFlagRequired("ends")
	cmd.MarkFlagRequired("wage")
	cmd.MarkFlagsMutuallyExclusive("rrule", "template")
	return cmd
}

func orgDeleteEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-event <event_id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}

			if err := services.DeleteEvent(app.Ctx, app.API, app.Events.Screen(), app.Logger, id, eventID); err != nil {
				return err
			}

			fmt.Printf("\n✓ Event #%d deleted\n\n", eventID)
			return nil
		},
	}
}

func orgApplicationsCmd(app *AppContext) *cobra.Command {
	var flags listFlags
	var eventID int64

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List applications to the organization's events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}

			fetch := orgFetch(id, app.API.OrgApplications)
			if eventID > 0 {
				inner := fetch
				fetch = func(ctx context.Context, q pager.Query) (*apiclient.Page[model.Application], error) {
					q.Filters = withFilter(q.Filters, "event_id", strconv.FormatInt(eventID, 10))
					return inner(ctx, q)
				}
			}

			view, err := showList(app, "Applications", fetch, flags, applicationSorters, applicationRow)
			if err != nil {
				return err
			}
			app.Applications = view
			return nil
		},
	}

	flags.register(cmd, "Filter by status: pending, accepted, rejected, cancelled", pager.SortFields(applicationSorters))
	cmd.Flags().Int64Var(&eventID, "event", 0, "Only applications to this event")
	return cmd
}

func withFilter(filters map[string]string, key, value string) map[string]string {
	if filters == nil {
		filters = make(map[string]string)
	}
	filters[key] = value
	return filters
}

func orgDecideCmd(app *AppContext, accept bool) *cobra.Command {
	use, short, message := "accept <application_id>", "Accept an application", "application.accepted"
	if !accept {
		use, short, message = "reject <application_id>", "Reject an application", "application.rejected"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			applicationID, err := parseID(args[0], "application_id")
			if err != nil {
				return err
			}

			decided, err := services.DecideApplication(app.Ctx, app.API, app.Applications.Screen(), app.Logger, id, applicationID, accept)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T(message, nil))
			fmt.Printf("  %s\n\n", applicationRow(*decided))
			return nil
		},
	}
}

func orgAttendanceCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "attendance <event_id>",
		Short: "Show check-ins for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}

			records, err := app.API.EventAttendance(app.Ctx, id, eventID)
			if err != nil {
				return err
			}

			fmt.Printf("\nAttendance for event #%d (%d workers):\n\n", eventID, len(records))
			late := 0
			for _, a := range records {
				in, out := "-", "-"
				if a.CheckInAt != nil {
					in = format.DateTimeOf(*a.CheckInAt)
				}
				if a.CheckOutAt != nil {
					out = format.DateTimeOf(*a.CheckOutAt)
				}
				lateNote := ""
				if a.IsLate {
					late++
					lateNote = fmt.Sprintf("  late %s", format.Minutes(a.LateMinutes))
				}
				fmt.Printf("  %-20s in %s  out %s%s\n", a.WorkerName, in, out, lateNote)
			}
			if late > 0 {
				fmt.Printf("\n⚠️  %d late arrivals\n", late)
			}
			fmt.Println()
			return nil
		},
	}
}

func orgFollowersCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "followers",
		Short: "List workers following the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			_, err = showList(app, "Followers", orgFetch(id, app.API.Followers), flags, followerSorters, followRow)
			return err
		},
	}

	flags.register(cmd, "", pager.SortFields(followerSorters))
	return cmd
}

func inviteRow(i model.Invite) string {
	return fmt.Sprintf("#%-5d event #%-5d worker #%-5d %-10s %s", i.ID, i.EventID, i.WorkerID, i.Status, format.DateOf(i.CreatedAt))
}

func orgInvitesCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "invites",
		Short: "List invitations sent by the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			_, err = showList(app, "Invites", orgFetch(id, app.API.Invites), flags, inviteSorters, inviteRow)
			return err
		},
	}

	flags.register(cmd, "Filter by status", pager.SortFields(inviteSorters))
	return cmd
}

func orgInviteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "invite <event_id> <worker_id>",
		Short: "Invite a worker to an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			eventID, err := parseID(args[0], "event_id")
			if err != nil {
				return err
			}
			workerID, err := parseID(args[1], "worker_id")
			if err != nil {
				return err
			}

			invite, err := app.API.CreateInvite(app.Ctx, id, workproof.InviteInput{EventID: eventID, WorkerID: workerID})
			if err != nil {
				return err
			}

			app.Logger.Info("Invite sent", zap.Int64("invite_id", invite.ID))
			fmt.Printf("\n✓ Invite sent\n  %s\n\n", inviteRow(*invite))
			return nil
		},
	}
}

func orgPayrollCmd(app *AppContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "List payroll records for the organization's events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := orgID(app, cmd)
			if err != nil {
				return err
			}
			_, err = showList(app, "Payroll", orgFetch(id, app.API.OrgPayroll), flags, payrollSorters, payrollRow)
			return err
		},
	}

	flags.registerStatus(cmd, "payment_status", "Filter by payment status: pending, paid, failed", pager.SortFields(payrollSorters))
	return cmd
}

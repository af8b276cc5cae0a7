package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
)

// listView is a loaded screen plus how to print its rows
type listView[T any] struct {
	app    *AppContext
	title  string
	screen *pager.Screen[T]
	row    func(T) string
}

type (
	applicationsView = listView[model.Application]
	eventsView       = listView[model.Event]
)

func (v *listView[T]) NextPage(ctx context.Context) (bool, error) {
	return v.screen.NextPage(ctx)
}

func (v *listView[T]) PrevPage(ctx context.Context) (bool, error) {
	return v.screen.PrevPage(ctx)
}

// Render prints the visible rows with the page position
func (v *listView[T]) Render() {
	tr := v.app.Translator
	fmt.Printf("\n%s\n\n", v.title)

	switch v.screen.State() {
	case pager.StateLoading:
		fmt.Println(tr.T("list.loading", nil))
		return
	case pager.StateFailed:
		fmt.Printf("✗ %s %s\n\n", tr.T("list.failed", nil), v.app.ErrorMessage(v.screen.Err()))
		return
	case pager.StateEmpty:
		fmt.Printf("%s\n", tr.T("list.empty", nil))
		// Earlier pages can still hold rows
		if !v.screen.Pager().HasPrev() {
			fmt.Println()
			return
		}
	}

	for _, item := range v.screen.Visible(nil) {
		fmt.Printf("  %s\n", v.row(item))
	}

	p := v.screen.Pager()
	fmt.Printf("\nPage %s (%d total)", p.Label(), p.Total)
	if p.HasNext() || p.HasPrev() {
		fmt.Print(" - type 'next' or 'prev' to page")
	}
	fmt.Print("\n\n")
}

// listFlags are the paging, search and sort flags shared by list commands
type listFlags struct {
	// statusKey is the server filter the --status flag sets
	statusKey string

	page   int
	search string
	status string
	sort   string
	desc   bool
}

func (f *listFlags) register(cmd *cobra.Command, statusHelp string, sortFields []string) {
	f.registerStatus(cmd, "status", statusHelp, sortFields)
}

func (f *listFlags) registerStatus(cmd *cobra.Command, statusKey, statusHelp string, sortFields []string) {
	f.statusKey = statusKey
	cmd.Flags().IntVar(&f.page, "page", 1, "Page to open")
	cmd.Flags().StringVar(&f.search, "search", "", "Search text")
	if statusHelp != "" {
		cmd.Flags().StringVar(&f.status, "status", "", statusHelp)
	}
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort the page by field: "+strings.Join(sortFields, ", "))
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending")
}

// showList builds a screen over fetch, opens the requested page and renders it.
// The view becomes the current list for next/prev.
func showList[T any](
	app *AppContext,
	title string,
	fetch pager.FetchFunc[T],
	flags listFlags,
	sorters map[string]pager.Less[T],
	row func(T) string,
) (*listView[T], error) {
	screen := pager.NewScreen(fetch, app.PageSize())
	for name, less := range sorters {
		screen.Sorters[name] = less
	}
	screen.SetSearch(flags.search)
	if flags.statusKey != "" {
		screen.SetFilter(flags.statusKey, flags.status)
	}
	if err := screen.SortBy(flags.sort, flags.desc); err != nil {
		return nil, err
	}

	if err := screen.Load(app.Ctx); err != nil {
		return nil, err
	}
	for screen.Pager().Page < flags.page {
		moved, err := screen.NextPage(app.Ctx)
		if err != nil {
			return nil, err
		}
		if !moved {
			break
		}
	}

	view := &listView[T]{app: app, title: title, screen: screen, row: row}
	app.Current = view
	view.Render()
	return view, nil
}

var eventSorters = map[string]pager.Less[model.Event]{
	"starts": func(a, b model.Event) bool { return a.StartsAt.Before(b.StartsAt) },
	"wage":   func(a, b model.Event) bool { return a.HourlyWage < b.HourlyWage },
	"title":  func(a, b model.Event) bool { return a.Title < b.Title },
}

var applicationSorters = map[string]pager.Less[model.Application]{
	"applied": func(a, b model.Application) bool { return a.AppliedAt.Before(b.AppliedAt) },
	"worker":  func(a, b model.Application) bool { return a.WorkerName < b.WorkerName },
	"event":   func(a, b model.Application) bool { return a.EventTitle < b.EventTitle },
}

var orgSorters = map[string]pager.Less[model.Organization]{
	"name":      func(a, b model.Organization) bool { return a.Name < b.Name },
	"status":    func(a, b model.Organization) bool { return a.VerificationStatus < b.VerificationStatus },
	"followers": func(a, b model.Organization) bool { return a.FollowerCount < b.FollowerCount },
	"created":   func(a, b model.Organization) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

var userSorters = map[string]pager.Less[model.User]{
	"name":    func(a, b model.User) bool { return a.Name < b.Name },
	"email":   func(a, b model.User) bool { return a.Email < b.Email },
	"role":    func(a, b model.User) bool { return a.Role < b.Role },
	"created": func(a, b model.User) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

var workerSorters = map[string]pager.Less[model.WorkerSummary]{
	"name":   func(a, b model.WorkerSummary) bool { return a.Name < b.Name },
	"level":  func(a, b model.WorkerSummary) bool { return a.Level < b.Level },
	"trust":  func(a, b model.WorkerSummary) bool { return a.TrustScore < b.TrustScore },
	"shifts": func(a, b model.WorkerSummary) bool { return a.TotalWorked < b.TotalWorked },
}

var payrollSorters = map[string]pager.Less[model.PayrollRecord]{
	"event":  func(a, b model.PayrollRecord) bool { return a.EventTitle < b.EventTitle },
	"worker": func(a, b model.PayrollRecord) bool { return a.WorkerName < b.WorkerName },
	"net":    func(a, b model.PayrollRecord) bool { return a.NetPay < b.NetPay },
	"status": func(a, b model.PayrollRecord) bool { return a.PaymentStatus < b.PaymentStatus },
}

var followerSorters = map[string]pager.Less[model.Follow]{
	"worker":   func(a, b model.Follow) bool { return a.WorkerName < b.WorkerName },
	"followed": func(a, b model.Follow) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

var followingSorters = map[string]pager.Less[model.Follow]{
	"org":      func(a, b model.Follow) bool { return a.OrgName < b.OrgName },
	"followed": func(a, b model.Follow) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

var inviteSorters = map[string]pager.Less[model.Invite]{
	"event":   func(a, b model.Invite) bool { return a.EventID < b.EventID },
	"worker":  func(a, b model.Invite) bool { return a.WorkerID < b.WorkerID },
	"status":  func(a, b model.Invite) bool { return a.Status < b.Status },
	"created": func(a, b model.Invite) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/clients/workproof"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
	"github.com/jaeyoung-onebird/workproof/pkg/db"
	"github.com/jaeyoung-onebird/workproof/pkg/sheetssql"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI implements the narrow endpoint interfaces used by the services
type fakeAPI struct {
	mu sync.Mutex

	loginResp *workproof.LoginResponse
	loginErr  error
	me        *model.User
	logoutErr error
	logouts   int

	profile  *model.WorkerProfile
	metrics  *model.Metrics
	schedule []model.ScheduleItem
	badges   []model.Badge
	badgeErr error
	stats    *model.AdminStats

	decideErr error
	decisions map[int64]model.ApplicationStatus
	deleteErr error
	deleted   []int64

	createFailAt map[int]bool
	created      []model.EventInput

	payroll      []model.PayrollRecord
	payrollErr   error
	payrollCalls []pager.Query
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*workproof.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Signup(ctx context.Context, req workproof.SignupRequest) (*model.User, error) {
	return &model.User{ID: 99, Email: req.Email, Name: req.Name, Role: req.Role}, nil
}

func (f *fakeAPI) Me(ctx context.Context) (*model.User, error) {
	return f.me, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAPI) WorkerProfile(ctx context.Context) (*model.WorkerProfile, error) {
	return f.profile, nil
}

func (f *fakeAPI) Metrics(ctx context.Context) (*model.Metrics, error) {
	return f.metrics, nil
}

func (f *fakeAPI) Schedule(ctx context.Context) ([]model.ScheduleItem, error) {
	return f.schedule, nil
}

func (f *fakeAPI) Badges(ctx context.Context) ([]model.Badge, error) {
	return f.badges, f.badgeErr
}

func (f *fakeAPI) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	return f.stats, nil
}

func (f *fakeAPI) AcceptApplication(ctx context.Context, orgID, applicationID int64) (*model.Application, error) {
	return f.decide(applicationID, model.ApplicationAccepted)
}

func (f *fakeAPI) RejectApplication(ctx context.Context, orgID, applicationID int64) (*model.Application, error) {
	return f.decide(applicationID, model.ApplicationRejected)
}

func (f *fakeAPI) decide(id int64, status model.ApplicationStatus) (*model.Application, error) {
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	if f.decisions == nil {
		f.decisions = map[int64]model.ApplicationStatus{}
	}
	f.decisions[id] = status
	return &model.Application{ID: id, Status: status}, nil
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, orgID, eventID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeAPI) CreateEvent(ctx context.Context, orgID int64, input model.EventInput) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	index := len(f.created)
	f.created = append(f.created, input)
	if f.createFailAt[index] {
		return nil, fmt.Errorf("occurrence %d: %w", index, errBackend)
	}
	return &model.Event{ID: int64(index + 1), OrgID: orgID, Title: input.Title, StartsAt: input.StartsAt, EndsAt: input.EndsAt}, nil
}

// OrgPayroll pages through f.payroll, honoring the event_id filter
func (f *fakeAPI) OrgPayroll(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.PayrollRecord], error) {
	f.payrollCalls = append(f.payrollCalls, q)
	if f.payrollErr != nil {
		return nil, f.payrollErr
	}

	var matching []model.PayrollRecord
	for _, rec := range f.payroll {
		if id := q.Filters["event_id"]; id != "" && fmt.Sprint(rec.EventID) != id {
			continue
		}
		matching = append(matching, rec)
	}

	start := min((q.Page-1)*q.Size, len(matching))
	end := min(start+q.Size, len(matching))
	return &apiclient.Page[model.PayrollRecord]{
		Items: matching[start:end],
		Total: len(matching),
		Page:  q.Page,
		Size:  q.Size,
	}, nil
}

// fakeMailer records sent mail and fails for listed addresses
type fakeMailer struct {
	sent   map[string]string // to -> subject
	bodies map[string]string
	failTo map[string]bool
}

func (m *fakeMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.failTo[to] {
		return fmt.Errorf("mailbox %s rejected", to)
	}
	if m.sent == nil {
		m.sent = map[string]string{}
		m.bodies = map[string]string{}
	}
	m.sent[to] = subject
	m.bodies[to] = body
	return nil
}

func newLedger(t *testing.T) *db.DB {
	t.Helper()
	ledger, err := db.Open(sheetssql.NewMemoryClient(), "payroll-sheet")
	require.NoError(t, err)
	return ledger
}

func payrollRecords(n int, eventID int64) []model.PayrollRecord {
	records := make([]model.PayrollRecord, n)
	for i := range records {
		id := int64(i + 1)
		records[i] = model.PayrollRecord{
			ID:            id,
			EventID:       eventID,
			EventTitle:    "주말 행사 스태프",
			WorkerID:      100 + id,
			WorkerName:    fmt.Sprintf("worker-%d", id),
			WorkerEmail:   fmt.Sprintf("worker%d@example.com", id),
			WorkedMinutes: 480,
			HourlyWage:    10000,
			GrossPay:      80000,
			Deductions:    2640,
			NetPay:        77360,
			PaymentStatus: model.PaymentPending,
		}
	}
	return records
}

package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/clients/apiclient"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
	"github.com/jaeyoung-onebird/workproof/pkg/db"
)

// PayrollLister defines the org payroll listing
type PayrollLister interface {
	OrgPayroll(ctx context.Context, orgID int64, q pager.Query) (*apiclient.Page[model.PayrollRecord], error)
}

// PayrollFilter narrows the records an export or payslip run covers
type PayrollFilter struct {
	EventID       int64
	PaymentStatus model.PaymentStatus
}

func (f PayrollFilter) query(size int) pager.Query {
	filters := map[string]string{}
	if f.EventID > 0 {
		filters["event_id"] = fmt.Sprint(f.EventID)
	}
	if f.PaymentStatus != "" {
		filters["payment_status"] = string(f.PaymentStatus)
	}
	return pager.Query{Size: size, Filters: filters}
}

// ExportResult summarizes an export run
type ExportResult struct {
	Exported []db.PayrollExport
	Skipped  int // already present in the spreadsheet
}

// fetchPayroll loads every payroll record for the org matching filter
func fetchPayroll(ctx context.Context, api PayrollLister, orgID int64, filter PayrollFilter, pageSize int) ([]model.PayrollRecord, error) {
	fetch := func(ctx context.Context, q pager.Query) (*apiclient.Page[model.PayrollRecord], error) {
		return api.OrgPayroll(ctx, orgID, q)
	}
	records, err := collectAllPages(ctx, fetch, filter.query(pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payroll: %w", err)
	}
	return records, nil
}

// ExportPayroll copies the org's payroll records into the ledger spreadsheet.
// Records whose payroll id is already exported are skipped, so the run can be repeated.
func ExportPayroll(
	ctx context.Context,
	api PayrollLister,
	ledger db.PayrollLedger,
	logger *zap.Logger,
	orgID int64,
	filter PayrollFilter,
	pageSize int,
	now time.Time,
) (*ExportResult, error) {
	logger.Debug("Exporting payroll", zap.Int64("org_id", orgID), zap.Int64("event_id", filter.EventID))

	records, err := fetchPayroll(ctx, api, orgID, filter, pageSize)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fetched payroll records", zap.Int("count", len(records)))

	existing, err := ledger.GetPayrollExports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read exported payroll: %w", err)
	}
	exported := make(map[int64]bool, len(existing))
	for _, e := range existing {
		exported[e.PayrollID] = true
	}

	result := &ExportResult{}
	for _, rec := range records {
		if exported[rec.ID] {
			result.Skipped++
			continue
		}
		exported[rec.ID] = true
		result.Exported = append(result.Exported, toPayrollExport(orgID, rec, now))
	}

	if err := ledger.InsertPayrollExports(ctx, result.Exported); err != nil {
		return nil, fmt.Errorf("failed to write payroll export: %w", err)
	}

	logger.Info("Payroll exported", zap.Int("exported", len(result.Exported)), zap.Int("skipped", result.Skipped))
	return result, nil
}

func toPayrollExport(orgID int64, rec model.PayrollRecord, now time.Time) db.PayrollExport {
	return db.PayrollExport{
		PayrollID:     rec.ID,
		OrgID:         orgID,
		EventID:       rec.EventID,
		EventTitle:    rec.EventTitle,
		WorkerID:      rec.WorkerID,
		WorkerName:    rec.WorkerName,
		WorkedMinutes: rec.WorkedMinutes,
		HourlyWage:    rec.HourlyWage,
		GrossPay:      rec.GrossPay,
		Deductions:    rec.Deductions,
		NetPay:        rec.NetPay,
		PaymentStatus: string(rec.PaymentStatus),
		ExportedAt:    now.UTC(),
	}
}

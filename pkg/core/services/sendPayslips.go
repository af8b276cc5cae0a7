package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/db"
)

// Mailer sends a plain-text email
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// PayslipSent is a payslip that was mailed
type PayslipSent struct {
	PayrollID  int64
	WorkerName string
	Email      string
}

// FailedEmail is a payslip that could not be mailed
type FailedEmail struct {
	PayrollID  int64
	WorkerName string
	Email      string
	Reason     string
}

// PayslipResult summarizes a payslip run
type PayslipResult struct {
	Sent    []PayslipSent
	Failed  []FailedEmail
	Skipped int // already mailed
}

// SendPayslips mails one payslip per payroll record. Each sent payslip is recorded in the
// ledger straight away, so a rerun only retries the ones that failed.
func SendPayslips(
	ctx context.Context,
	api PayrollLister,
	ledger db.PayrollLedger,
	mailer Mailer,
	tr Translator,
	logger *zap.Logger,
	orgID int64,
	filter PayrollFilter,
	pageSize int,
	now func() time.Time,
) (*PayslipResult, error) {
	logger.Debug("Sending payslips", zap.Int64("org_id", orgID), zap.Int64("event_id", filter.EventID))

	records, err := fetchPayroll(ctx, api, orgID, filter, pageSize)
	if err != nil {
		return nil, err
	}

	deliveries, err := ledger.GetPayslipDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read payslip deliveries: %w", err)
	}
	delivered := make(map[int64]bool, len(deliveries))
	for _, d := range deliveries {
		delivered[d.PayrollID] = true
	}

	result := &PayslipResult{}
	for _, rec := range records {
		if delivered[rec.ID] {
			result.Skipped++
			continue
		}

		if rec.WorkerEmail == "" {
			result.Failed = append(result.Failed, FailedEmail{
				PayrollID:  rec.ID,
				WorkerName: rec.WorkerName,
				Reason:     "no email address on record",
			})
			continue
		}

		subject, body := RenderPayslip(tr, rec)
		if err := mailer.SendEmail(ctx, rec.WorkerEmail, subject, body); err != nil {
			logger.Warn("Failed to send payslip", zap.Int64("payroll_id", rec.ID), zap.Error(err))
			result.Failed = append(result.Failed, FailedEmail{
				PayrollID:  rec.ID,
				WorkerName: rec.WorkerName,
				Email:      rec.WorkerEmail,
				Reason:     err.Error(),
			})
			continue
		}

		delivered[rec.ID] = true
		result.Sent = append(result.Sent, PayslipSent{PayrollID: rec.ID, WorkerName: rec.WorkerName, Email: rec.WorkerEmail})

		if err := ledger.InsertPayslipDelivery(ctx, &db.PayslipDelivery{
			PayrollID: rec.ID,
			WorkerID:  rec.WorkerID,
			Email:     rec.WorkerEmail,
			SentAt:    now().UTC(),
		}); err != nil {
			return result, fmt.Errorf("failed to record payslip delivery: %w", err)
		}
	}

	logger.Info("Payslips processed",
		zap.Int("sent", len(result.Sent)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// RenderPayslip builds the localized subject and body for one payroll record
func RenderPayslip(tr Translator, rec model.PayrollRecord) (string, string) {
	subject := tr.T("payslip.subject", map[string]any{"EventTitle": rec.EventTitle})
	body := tr.T("payslip.body", map[string]any{
		"WorkerName": rec.WorkerName,
		"EventTitle": rec.EventTitle,
		"Worked":     format.Minutes(rec.WorkedMinutes),
		"HourlyWage": format.Currency(rec.HourlyWage),
		"GrossPay":   format.Currency(rec.GrossPay),
		"Deductions": format.Currency(rec.Deductions),
		"NetPay":     format.Currency(rec.NetPay),
	})
	return subject, body
}

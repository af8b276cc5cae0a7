package postgres

import (
	"context"
	"fmt"

	"github.com/jaeyoung-onebird/workproof/pkg/db"
)

// GetPayrollExports retrieves all exported payroll rows
func (d *DB) GetPayrollExports(ctx context.Context) ([]db.PayrollExport, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT payroll_id, org_id, event_id, event_title, worker_id, worker_name,
		       worked_minutes, hourly_wage, gross_pay, deductions, net_pay, payment_status, exported_at
		FROM payroll_export
		ORDER BY exported_at, payroll_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll exports: %w", err)
	}
	defer rows.Close()

	var exports []db.PayrollExport
	for rows.Next() {
		var e db.PayrollExport
		if err := rows.Scan(&e.PayrollID, &e.OrgID, &e.EventID, &e.EventTitle, &e.WorkerID, &e.WorkerName,
			&e.WorkedMinutes, &e.HourlyWage, &e.GrossPay, &e.Deductions, &e.NetPay, &e.PaymentStatus, &e.ExportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll export: %w", err)
		}
		e.ExportedAt = e.ExportedAt.UTC()
		exports = append(exports, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll exports: %w", err)
	}

	return exports, nil
}

// InsertPayrollExports inserts export rows in one transaction. Rows already present are left as they are.
func (d *DB) InsertPayrollExports(ctx context.Context, exports []db.PayrollExport) error {
	if len(exports) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range exports {
		_, err := tx.Exec(ctx, `
			INSERT INTO payroll_export (payroll_id, org_id, event_id, event_title, worker_id, worker_name,
				worked_minutes, hourly_wage, gross_pay, deductions, net_pay, payment_status, exported_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (payroll_id) DO NOTHING
		`, e.PayrollID, e.OrgID, e.EventID, e.EventTitle, e.WorkerID, e.WorkerName,
			e.WorkedMinutes, e.HourlyWage, e.GrossPay, e.Deductions, e.NetPay, e.PaymentStatus, e.ExportedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert payroll export %d: %w", e.PayrollID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payroll exports: %w", err)
	}
	return nil
}

// GetPayslipDeliveries retrieves all recorded payslip deliveries
func (d *DB) GetPayslipDeliveries(ctx context.Context) ([]db.PayslipDelivery, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT payroll_id, worker_id, email, sent_at
		FROM payslip_delivery
		ORDER BY sent_at, payroll_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslip deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []db.PayslipDelivery
	for rows.Next() {
		var p db.PayslipDelivery
		if err := rows.Scan(&p.PayrollID, &p.WorkerID, &p.Email, &p.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan payslip delivery: %w", err)
		}
		p.SentAt = p.SentAt.UTC()
		deliveries = append(deliveries, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payslip deliveries: %w", err)
	}

	return deliveries, nil
}

// InsertPayslipDelivery records one sent payslip
func (d *DB) InsertPayslipDelivery(ctx context.Context, delivery *db.PayslipDelivery) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO payslip_delivery (payroll_id, worker_id, email, sent_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (payroll_id) DO NOTHING
	`, delivery.PayrollID, delivery.WorkerID, delivery.Email, delivery.SentAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert payslip delivery: %w", err)
	}
	return nil
}

var _ db.PayrollLedger = (*DB)(nil)

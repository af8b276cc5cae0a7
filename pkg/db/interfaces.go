package db

import "context"

// PayrollLedger records which payroll rows were exported and which payslips were mailed,
// so repeated runs skip work already done.
type PayrollLedger interface {
	GetPayrollExports(ctx context.Context) ([]PayrollExport, error)
	InsertPayrollExports(ctx context.Context, exports []PayrollExport) error
	GetPayslipDeliveries(ctx context.Context) ([]PayslipDelivery, error)
	InsertPayslipDelivery(ctx context.Context, delivery *PayslipDelivery) error
}

package db

import "time"

// PayrollExport is one payroll record copied into the export spreadsheet
type PayrollExport struct {
	PayrollID     int64     `ssql_header:"payroll_id" ssql_type:"int"`
	OrgID         int64     `ssql_header:"org_id" ssql_type:"int"`
	EventID       int64     `ssql_header:"event_id" ssql_type:"int"`
	EventTitle    string    `ssql_header:"event_title" ssql_type:"text"`
	WorkerID      int64     `ssql_header:"worker_id" ssql_type:"int"`
	WorkerName    string    `ssql_header:"worker_name" ssql_type:"text"`
	WorkedMinutes int       `ssql_header:"worked_minutes" ssql_type:"int"`
	HourlyWage    int64     `ssql_header:"hourly_wage" ssql_type:"int"`
	GrossPay      int64     `ssql_header:"gross_pay" ssql_type:"int"`
	Deductions    int64     `ssql_header:"deductions" ssql_type:"int"`
	NetPay        int64     `ssql_header:"net_pay" ssql_type:"int"`
	PaymentStatus string    `ssql_header:"payment_status" ssql_type:"text"`
	ExportedAt    time.Time `ssql_header:"exported_at" ssql_type:"datetime"`
}

// PayslipDelivery records a payslip email sent for a payroll record
type PayslipDelivery struct {
	PayrollID int64     `ssql_header:"payroll_id" ssql_type:"int"`
	WorkerID  int64     `ssql_header:"worker_id" ssql_type:"int"`
	Email     string    `ssql_header:"email" ssql_type:"text"`
	SentAt    time.Time `ssql_header:"sent_at" ssql_type:"datetime"`
}

// Models lists every table stored in the export spreadsheet
func Models() []interface{} {
	return []interface{}{
		PayrollExport{},
		PayslipDelivery{},
	}
}

package db

import (
	"context"
	"fmt"

	"github.com/jaeyoung-onebird/workproof/pkg/sheetssql"
)

// DB provides the payroll ledger on top of SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// Open ensures the ledger tables exist in the spreadsheet and returns a DB
func Open(client sheetssql.SheetsClient, spreadsheetID string) (*DB, error) {
	schema, err := sheetssql.SchemaFromModels(Models()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	ssqlDB, err := sheetssql.NewDB(client, spreadsheetID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &DB{ssql: ssqlDB}, nil
}

// GetPayrollExports returns every exported row, keeping the first row per payroll id
func (db *DB) GetPayrollExports(ctx context.Context) ([]PayrollExport, error) {
	exports, err := sheetssql.GetTableAs[PayrollExport](db.ssql)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll exports: %w", err)
	}
	return dedupe(exports, func(e PayrollExport) int64 { return e.PayrollID }), nil
}

func (db *DB) InsertPayrollExports(ctx context.Context, exports []PayrollExport) error {
	if err := sheetssql.InsertModels(db.ssql, exports); err != nil {
		return fmt.Errorf("failed to insert payroll exports: %w", err)
	}
	return nil
}

// GetPayslipDeliveries returns every recorded delivery, keeping the first per payroll id
func (db *DB) GetPayslipDeliveries(ctx context.Context) ([]PayslipDelivery, error) {
	deliveries, err := sheetssql.GetTableAs[PayslipDelivery](db.ssql)
	if err != nil {
		return nil, fmt.Errorf("failed to get payslip deliveries: %w", err)
	}
	return dedupe(deliveries, func(d PayslipDelivery) int64 { return d.PayrollID }), nil
}

func (db *DB) InsertPayslipDelivery(ctx context.Context, delivery *PayslipDelivery) error {
	if err := sheetssql.InsertModel(db.ssql, *delivery); err != nil {
		return fmt.Errorf("failed to insert payslip delivery: %w", err)
	}
	return nil
}

// dedupe keeps the first occurrence of each key, preserving order
func dedupe[T any](rows []T, key func(T) int64) []T {
	seen := make(map[int64]bool, len(rows))
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, row)
	}
	return result
}

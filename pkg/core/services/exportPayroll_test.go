package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
)

var exportTime = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func TestExportPayroll_WalksAllPages(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{payroll: payrollRecords(45, 7)}
	ledger := newLedger(t)

	result, err := ExportPayroll(ctx, api, ledger, zap.NewNop(), 9, PayrollFilter{}, 20, exportTime)
	require.NoError(t, err)

	assert.Len(t, result.Exported, 45)
	assert.Zero(t, result.Skipped)
	require.Len(t, api.payrollCalls, 3)
	assert.Equal(t, 3, api.payrollCalls[2].Page)

	exports, err := ledger.GetPayrollExports(ctx)
	require.NoError(t, err)
	require.Len(t, exports, 45)
	assert.Equal(t, int64(9), exports[0].OrgID)
	assert.Equal(t, "pending", exports[0].PaymentStatus)
	assert.True(t, exportTime.Equal(exports[0].ExportedAt))
}

func TestExportPayroll_SkipsAlreadyExported(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	first := &fakeAPI{payroll: payrollRecords(3, 7)}
	_, err := ExportPayroll(ctx, first, ledger, zap.NewNop(), 9, PayrollFilter{}, 20, exportTime)
	require.NoError(t, err)

	second := &fakeAPI{payroll: payrollRecords(5, 7)}
	result, err := ExportPayroll(ctx, second, ledger, zap.NewNop(), 9, PayrollFilter{}, 20, exportTime)
	require.NoError(t, err)

	assert.Len(t, result.Exported, 2)
	assert.Equal(t, 3, result.Skipped)

	exports, err := ledger.GetPayrollExports(ctx)
	require.NoError(t, err)
	assert.Len(t, exports, 5)
}

func TestExportPayroll_EventFilter(t *testing.T) {
	records := append(payrollRecords(2, 7), model.PayrollRecord{ID: 50, EventID: 8})
	api := &fakeAPI{payroll: records}

	result, err := ExportPayroll(context.Background(), api, newLedger(t), zap.NewNop(), 9, PayrollFilter{EventID: 8}, 20, exportTime)
	require.NoError(t, err)

	require.Len(t, result.Exported, 1)
	assert.Equal(t, int64(50), result.Exported[0].PayrollID)
	assert.Equal(t, "8", api.payrollCalls[0].Filters["event_id"])
}

func TestExportPayroll_FetchError(t *testing.T) {
	api := &fakeAPI{payrollErr: errBackend}

	_, err := ExportPayroll(context.Background(), api, newLedger(t), zap.NewNop(), 9, PayrollFilter{}, 20, exportTime)
	assert.ErrorIs(t, err, errBackend)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaeyoung-onebird/workproof/pkg/core/model"
	"github.com/jaeyoung-onebird/workproof/pkg/i18n"
)

func fixedNow() time.Time {
	return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
}

func TestSendPayslips_SendsAndRecords(t *testing.T) {
	ctx := context.Background()
	records := payrollRecords(3, 7)
	records[2].WorkerEmail = ""

	api := &fakeAPI{payroll: records}
	mailer := &fakeMailer{failTo: map[string]bool{"worker2@example.com": true}}
	ledger := newLedger(t)
	tr := i18n.NewTranslator("ko", nil)

	result, err := SendPayslips(ctx, api, ledger, mailer, tr, zap.NewNop(), 9, PayrollFilter{}, 20, fixedNow)
	require.NoError(t, err)

	require.Len(t, result.Sent, 1)
	assert.Equal(t, "worker1@example.com", result.Sent[0].Email)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, int64(2), result.Failed[0].PayrollID)
	assert.Contains(t, result.Failed[0].Reason, "rejected")
	assert.Equal(t, "no email address on record", result.Failed[1].Reason)

	assert.Equal(t, "[WorkProof] 주말 행사 스태프 급여 명세서", mailer.sent["worker1@example.com"])
	body := mailer.bodies["worker1@example.com"]
	assert.Contains(t, body, "worker-1님")
	assert.Contains(t, body, "근무 시간: 8시간")
	assert.Contains(t, body, "실 지급액: 77,360원")

	deliveries, err := ledger.GetPayslipDeliveries(ctx)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, int64(1), deliveries[0].PayrollID)
	assert.True(t, fixedNow().Equal(deliveries[0].SentAt))
}

func TestSendPayslips_RerunOnlyRetriesUnsent(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{payroll: payrollRecords(2, 7)}
	ledger := newLedger(t)
	tr := i18n.NewTranslator("ko", nil)

	flaky := &fakeMailer{failTo: map[string]bool{"worker2@example.com": true}}
	_, err := SendPayslips(ctx, api, ledger, flaky, tr, zap.NewNop(), 9, PayrollFilter{}, 20, fixedNow)
	require.NoError(t, err)

	mailer := &fakeMailer{}
	result, err := SendPayslips(ctx, api, ledger, mailer, tr, zap.NewNop(), 9, PayrollFilter{}, 20, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Sent, 1)
	assert.Equal(t, "worker2@example.com", result.Sent[0].Email)
	assert.Len(t, mailer.sent, 1)
}

func TestRenderPayslip_English(t *testing.T) {
	tr := i18n.NewTranslator("en", nil)
	rec := model.PayrollRecord{EventTitle: "Festival", WorkerName: "Kim", WorkedMinutes: 150, NetPay: 25000}

	subject, body := RenderPayslip(tr, rec)
	assert.Contains(t, subject, "Festival")
	assert.Contains(t, body, "Kim")
	assert.Contains(t, body, "25,000원")
}

package sheetssql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestPayrollExport struct {
	PayrollID  int64     `ssql_header:"payroll_id" ssql_type:"int"`
	WorkerName string    `ssql_header:"worker_name" ssql_type:"text"`
	NetPay     int64     `ssql_header:"net_pay" ssql_type:"int"`
	ExportedAt time.Time `ssql_header:"exported_at" ssql_type:"datetime"`
}

type TestPayslipDelivery struct {
	PayrollID int64  `ssql_header:"payroll_id" ssql_type:"int"`
	Email     string `ssql_header:"email" ssql_type:"text"`
}

func TestSchemaFromModels_SingleModel(t *testing.T) {
	schema, err := SchemaFromModels(TestPayrollExport{})
	require.NoError(t, err)

	require.Len(t, schema.Tables, 1)
	table := schema.Tables[0]

	assert.Equal(t, "test_payroll_export", table.Name)
	require.Len(t, table.Columns, 4)

	assert.Equal(t, Column{Name: "payroll_id", Type: "int"}, table.Columns[0])
	assert.Equal(t, Column{Name: "worker_name", Type: "text"}, table.Columns[1])
	assert.Equal(t, Column{Name: "exported_at", Type: "datetime"}, table.Columns[3])
}

func TestSchemaFromModels_MultipleModels(t *testing.T) {
	schema, err := SchemaFromModels(TestPayrollExport{}, &TestPayslipDelivery{})
	require.NoError(t, err)

	require.Len(t, schema.Tables, 2)
	assert.Equal(t, "test_payroll_export", schema.Tables[0].Name)
	assert.Equal(t, "test_payslip_delivery", schema.Tables[1].Name)
	assert.Len(t, schema.Tables[1].Columns, 2)
}

func TestSchemaFromModels_MissingTags(t *testing.T) {
	type NoHeader struct {
		ID string `ssql_type:"text"`
	}
	type NoType struct {
		ID string `ssql_header:"id"`
	}

	_, err := SchemaFromModels(NoHeader{})
	assert.ErrorContains(t, err, "missing 'ssql_header' tag")

	_, err = SchemaFromModels(NoType{})
	assert.ErrorContains(t, err, "missing 'ssql_type' tag")
}

func TestSchemaFromModels_NotAStruct(t *testing.T) {
	_, err := SchemaFromModels("not a struct")
	assert.ErrorContains(t, err, "must be a struct")
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PayrollExport", "payroll_export"},
		{"PayslipDelivery", "payslip_delivery"},
		{"ID", "i_d"},
		{"simple", "simple"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, toSnakeCase(tt.input))
		})
	}
}

func TestNewDB_CreatesMissingTables(t *testing.T) {
	client := NewMemoryClient()
	schema, err := SchemaFromModels(TestPayrollExport{}, TestPayslipDelivery{})
	require.NoError(t, err)

	_, err = NewDB(client, "sheet-id", schema)
	require.NoError(t, err)

	titles, err := client.SheetTitles("sheet-id")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_payroll_export", "test_payslip_delivery"}, titles)

	rows := client.Rows("test_payslip_delivery")
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"payroll_id", "email"}, rows[0])
	assert.Equal(t, []interface{}{"int", "text"}, rows[1])

	// A second connection verifies instead of recreating
	_, err = NewDB(client, "sheet-id", schema)
	require.NoError(t, err)
}

func TestNewDB_SchemaMismatch(t *testing.T) {
	client := NewMemoryClient()
	_, err := client.CreateSheet("sheet-id", "test_payslip_delivery")
	require.NoError(t, err)
	require.NoError(t, client.AppendRows("sheet-id", "test_payslip_delivery", [][]interface{}{
		{"payroll_id", "address"},
		{"int", "text"},
	}))

	schema, err := SchemaFromModels(TestPayslipDelivery{})
	require.NoError(t, err)

	_, err = NewDB(client, "sheet-id", schema)
	assert.ErrorContains(t, err, "expected header 'email'")
}

func TestNewDB_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewDB(NewMemoryClient(), "", &Schema{})
	assert.Error(t, err)
}

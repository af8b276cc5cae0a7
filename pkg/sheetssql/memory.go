package sheetssql

import (
	"fmt"
	"strings"
	"sync"
)

// MemoryClient is an in-memory SheetsClient. Cells are stored as strings, the way the
// Sheets API returns formatted values. It backs `payroll export --dry-run` and tests.
type MemoryClient struct {
	mu     sync.Mutex
	sheets map[string][][]interface{}
	order  []string
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{sheets: make(map[string][][]interface{})}
}

// GetValues supports a bare sheet title or a "title!A1:ZZ2" header range
func (m *MemoryClient) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	title, cells, hasRange := strings.Cut(sheetRange, "!")
	rows, ok := m.sheets[title]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", title)
	}

	if hasRange && strings.HasSuffix(cells, "2") && len(rows) > 2 {
		rows = rows[:2]
	}

	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = append([]interface{}(nil), row...)
	}
	return out, nil
}

func (m *MemoryClient) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	title, _, _ := strings.Cut(sheetRange, "!")
	if _, ok := m.sheets[title]; !ok {
		return fmt.Errorf("sheet %q not found", title)
	}

	for _, row := range values {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		m.sheets[title] = append(m.sheets[title], cells)
	}
	return nil
}

func (m *MemoryClient) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheetTitle]; ok {
		return 0, fmt.Errorf("sheet %q already exists", sheetTitle)
	}
	m.sheets[sheetTitle] = nil
	m.order = append(m.order, sheetTitle)
	return int64(len(m.order)), nil
}

func (m *MemoryClient) SheetTitles(spreadsheetID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...), nil
}

// Rows returns a copy of every row in a sheet, header and type rows included
func (m *MemoryClient) Rows(sheetTitle string) [][]interface{} {
	rows, _ := m.GetValues("", sheetTitle)
	return rows
}

package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{130000, "130,000원"},
		{0, "0원"},
		{999, "999원"},
		{1000, "1,000원"},
		{12345678, "12,345,678원"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Currency(tt.amount))
		})
	}
}

func TestWPT(t *testing.T) {
	assert.Equal(t, "1,234.5 WPT", WPT(1234.5))
	assert.Equal(t, "100 WPT", WPT(100))
	assert.Equal(t, "0.25 WPT", WPT(0.25))
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain date", "2024-05-01", "2024년 5월 1일"},
		{"rfc3339", "2024-12-25T09:00:00+09:00", "2024년 12월 25일"},
		{"naive timestamp", "2024-01-09T18:45:00", "2024년 1월 9일"},
		{"unparseable", "next tuesday", "next tuesday"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Date(tt.input))
		})
	}
}

func TestDateTime(t *testing.T) {
	assert.Equal(t, "2024년 5월 1일 14:30", DateTime("2024-05-01T14:30:00"))
	assert.Equal(t, "2024년 5월 1일 09:05", DateTime("2024-05-01T09:05:00+09:00"))
	assert.Equal(t, "garbage", DateTime("garbage"))
}

func TestDateTimeOf(t *testing.T) {
	ts := time.Date(2025, time.March, 3, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025년 3월 3일 07:00", DateTimeOf(ts))
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, "2시간 30분", Minutes(150))
	assert.Equal(t, "1시간", Minutes(60))
	assert.Equal(t, "45분", Minutes(45))
	assert.Equal(t, "0분", Minutes(0))
	assert.Equal(t, "0분", Minutes(-5))
}

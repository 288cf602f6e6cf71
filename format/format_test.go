// format_test.go - Tests fuer Zahlen- und Dauer-Formatierung
package format

import (
	"testing"
	"time"
)

func TestHumanNumber(t *testing.T) {
	tests := []struct {
		input    uint64
		expected string
	}{
		{26, "26"},
		{999, "999"},
		{1000, "1K"},
		{1001, "1K"},
		{1000000, "1M"},
		{1250000, "1.2M"},
		{1000000000, "1.0B"},
		{2_980_000_000, "3.0B"},
	}

	for _, tt := range tests {
		result := HumanNumber(tt.input)
		if result != tt.expected {
			t.Errorf("HumanNumber(%d) = %s, erwartet %s", tt.input, result, tt.expected)
		}
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{1024, "1.0 KB"},
		{1000000, "1 MB"},
		{1536000, "1.5 MB"},
		{1073741824, "1.1 GB"},
	}

	for _, tt := range tests {
		result := HumanBytes(tt.input)
		if result != tt.expected {
			t.Errorf("HumanBytes(%d) = %s, erwartet %s", tt.input, result, tt.expected)
		}
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{-3 * time.Second, "0s"},
		{0, "0s"},
		{45 * time.Second, "45s"},
		{12*time.Minute + 30*time.Second, "12m30s"},
		{time.Hour + 12*time.Minute, "1h12m"},
		{26 * time.Hour, "26h0m"},
	}

	for _, tt := range tests {
		result := HumanDuration(tt.input)
		if result != tt.expected {
			t.Errorf("HumanDuration(%v) = %s, erwartet %s", tt.input, result, tt.expected)
		}
	}
}

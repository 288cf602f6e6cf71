// format.go - Menschlich lesbare Zahlen, Bytes und Dauern
//
// Dieses Modul enthaelt:
// - HumanNumber: 1234567 -> "1.2M"
// - HumanBytes: 1536 -> "1.5 KB"
// - HumanDuration: Dauer als "1h12m" fuer ETA-Anzeigen
package format

import (
	"fmt"
	"math"
	"time"
)

const (
	Thousand = 1000
	Million  = Thousand * 1000
	Billion  = Million * 1000
)

const (
	Byte     = 1
	KiloByte = Byte * 1000
	MegaByte = KiloByte * 1000
	GigaByte = MegaByte * 1000

	KibiByte = Byte * 1024
	MebiByte = KibiByte * 1024
	GibiByte = MebiByte * 1024
)

// HumanNumber formatiert grosse Zahlen mit K/M/B Suffix
func HumanNumber(n uint64) string {
	switch {
	case n >= Billion:
		return fmt.Sprintf("%.1fB", math.Round(float64(n)/Billion*10)/10)
	case n >= Million:
		number := float64(n) / Million
		if number == math.Floor(number) {
			return fmt.Sprintf("%.0fM", number)
		}
		return fmt.Sprintf("%.1fM", number)
	case n >= Thousand:
		return fmt.Sprintf("%.0fK", math.Round(float64(n)/Thousand))
	default:
		return fmt.Sprintf("%d", n)
	}
}

// HumanBytes formatiert Byte-Groessen dezimal (KB/MB/GB)
func HumanBytes(b int64) string {
	var value float64
	var unit string

	switch {
	case b >= GigaByte:
		value = float64(b) / GigaByte
		unit = "GB"
	case b >= MegaByte:
		value = float64(b) / MegaByte
		unit = "MB"
	case b >= KiloByte:
		value = float64(b) / KiloByte
		unit = "KB"
	default:
		return fmt.Sprintf("%d B", b)
	}

	switch {
	case value >= 100:
		return fmt.Sprintf("%d %s", int(value), unit)
	case value >= 10:
		return fmt.Sprintf("%d %s", int(value), unit)
	case value != math.Trunc(value):
		return fmt.Sprintf("%.1f %s", value, unit)
	default:
		return fmt.Sprintf("%d %s", int(value), unit)
	}
}

// HumanDuration formatiert eine Dauer kompakt fuer ETA-Ausgaben,
// z.B. "0s", "45s", "12m30s", "1h12m"
func HumanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	switch {
	case d >= time.Hour:
		h := d / time.Hour
		m := (d % time.Hour) / time.Minute
		return fmt.Sprintf("%dh%dm", h, m)
	case d >= time.Minute:
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}

// bar.go - Fortschrittsbalken fuer das Training
//
// Der Balken zeigt Prozent, Balkengrafik und eine frei setzbare
// Statuszeile (lr, loss, Tokens/s, ETA). Die Breite passt sich der
// Terminalbreite an; die Statuszeile wird bei Platzmangel gekuerzt.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Bar ist ein Fortschrittsbalken ueber einen Tokenzaehler
type Bar struct {
	mu sync.Mutex

	message      string
	maxValue     int64
	currentValue int64
	status       string
}

// NewBar erstellt einen Balken mit Nachricht, Maximum und Startwert
func NewBar(message string, maxValue, initialValue int64) *Bar {
	return &Bar{
		message:      message,
		maxValue:     maxValue,
		currentValue: initialValue,
	}
}

// Set aktualisiert den aktuellen Wert
func (b *Bar) Set(value int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if value > b.maxValue {
		value = b.maxValue
	}
	b.currentValue = value
}

// SetStatus aktualisiert die Statuszeile rechts vom Balken
func (b *Bar) SetStatus(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.status = status
}

func (b *Bar) percent() float64 {
	if b.maxValue > 0 {
		return float64(b.currentValue) / float64(b.maxValue) * 100
	}
	return 0
}

func (b *Bar) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	termWidth, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil {
		termWidth = 80
	}

	var pre strings.Builder
	if len(b.message) > 0 {
		message := strings.TrimSpace(b.message)
		pre.WriteString(message)
		pre.WriteString(" ")
	}
	pre.WriteString(fmt.Sprintf("%3.0f%% ", b.percent()))

	suf := b.status

	// Platz fuer den eigentlichen Balken berechnen
	mid := termWidth - runewidth.StringWidth(pre.String()) - runewidth.StringWidth(suf) - 3
	if mid < 10 {
		// Status kuerzen bevor der Balken verschwindet
		suf = runewidth.Truncate(suf, max(0, termWidth-runewidth.StringWidth(pre.String())-13), "…")
		mid = termWidth - runewidth.StringWidth(pre.String()) - runewidth.StringWidth(suf) - 3
	}
	if mid < 1 {
		mid = 1
	}

	filled := int(float64(mid) * b.percent() / 100)
	if filled > mid {
		filled = mid
	}

	var bar strings.Builder
	bar.WriteString("▕")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", mid-filled))
	bar.WriteString("▏ ")

	return pre.String() + bar.String() + suf
}

// progress.go - Terminal-Fortschrittsanzeige auf stderr
//
// Dieses Modul enthaelt:
// - State: Interface fuer darstellbare Zustaende (Bar, Spinner)
// - Progress: Sammelt States und zeichnet sie periodisch neu
//
// Die Anzeige wird mit \r und ANSI-Cursorbewegungen in-place
// aktualisiert; Stop beendet den Ticker und schreibt die letzte Zeile.
package progress

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"
)

// State ist ein darstellbarer Fortschrittszustand
type State interface {
	String() string
}

// Progress verwaltet eine Liste von States und zeichnet sie periodisch
type Progress struct {
	mu sync.Mutex
	w  *bufio.Writer

	pos int

	ticker *time.Ticker
	states []State
}

// NewProgress erstellt eine Fortschrittsanzeige und startet den Render-Loop
func NewProgress(w io.Writer) *Progress {
	p := &Progress{w: bufio.NewWriter(w)}
	go p.start()
	return p
}

func (p *Progress) stop() bool {
	for _, state := range p.states {
		if spinner, ok := state.(*Spinner); ok {
			spinner.Stop()
		}
	}

	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.render()
		return true
	}

	return false
}

// Stop beendet die Anzeige und laesst die letzte Zeile stehen
func (p *Progress) Stop() bool {
	stopped := p.stop()
	if stopped {
		fmt.Fprint(p.w, "\n")
		p.w.Flush()
	}
	return stopped
}

// StopAndClear beendet die Anzeige und loescht alle gezeichneten Zeilen
func (p *Progress) StopAndClear() bool {
	fmt.Fprint(p.w, "\033[?25l")
	defer fmt.Fprint(p.w, "\033[?25h")

	stopped := p.stop()
	if stopped {
		// Block plus Leerzeile darunter nach oben loeschen
		for i := 0; i <= p.pos; i++ {
			if i > 0 {
				fmt.Fprint(p.w, "\033[A")
			}
			fmt.Fprint(p.w, "\033[2K\033[1G")
		}
		p.w.Flush()
	}

	return stopped
}

// Add registriert einen neuen State am Ende der Anzeige
func (p *Progress) Add(_ string, state State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.states = append(p.states, state)
}

func (p *Progress) render() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.w, "\033[?25l")
	defer fmt.Fprint(p.w, "\033[?25h")

	// Cursor zurueck zur ersten Zeile der Anzeige
	if p.pos > 0 {
		fmt.Fprintf(p.w, "\033[%dA\033[1G", p.pos)
	}

	for i, state := range p.states {
		if i > 0 {
			fmt.Fprint(p.w, "\n")
		}
		fmt.Fprint(p.w, state.String(), "\033[K")
	}

	if len(p.states) > 0 {
		fmt.Fprint(p.w, "\n")
	}

	p.pos = len(p.states)
	p.w.Flush()
}

func (p *Progress) start() {
	p.ticker = time.NewTicker(100 * time.Millisecond)
	for range p.ticker.C {
		p.render()
	}
}

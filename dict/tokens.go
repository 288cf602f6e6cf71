// tokens.go - Tokenstrom ueber dem Trainingskorpus
//
// Dieses Modul enthaelt:
// - TokenReader: Whitespace-getrennte Tokens mit EOS-Markierung an Zeilenenden
// - NewTokenReaderAt: Einstieg an einem Byte-Offset fuer Worker-Partitionen
// - Rewind/SkipLine: Wiederaufsetzen fuer Mehrfach-Epochen
//
// Ein Newline liefert erst das angefangene Token und beim naechsten
// Aufruf das EOS-Token, so wie es der Trainingsalgorithmus erwartet.
// Eine fuehrende BOM wird beim Lesen ab Dateianfang entfernt.
package dict

import (
	"bufio"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Markierungs-Tokens des Woerterbuchs
const (
	EOS = "</s>" // Zeilenende
	BOW = "<"    // Wortanfang fuer Zeichen-N-Grams
	EOW = ">"    // Wortende fuer Zeichen-N-Grams
)

// ErrNotSeekable meldet Rewind auf einem nicht-seekbaren Strom
var ErrNotSeekable = errors.New("token stream is not seekable")

// TokenReader zerlegt einen Bytestrom in Tokens. Separatoren sind
// Leerzeichen, Tab, \v, \f, \r und NUL; \n erzeugt zusaetzlich EOS.
type TokenReader struct {
	src  io.ReadSeeker // nil wenn nicht seekbar
	base int64         // Startoffset der Partition
	r    *bufio.Reader
	eof  bool
	tok  []byte
}

// NewTokenReader liest ab der aktuellen Position des Readers
func NewTokenReader(r io.Reader) *TokenReader {
	t := &TokenReader{
		r:   bufio.NewReaderSize(stripBOM(r), 64<<10),
		tok: make([]byte, 0, 64),
	}
	if s, ok := r.(io.ReadSeeker); ok {
		t.src = s
	}
	return t
}

// NewTokenReaderAt springt zum Offset und ueberspringt bei off > 0 die
// angeschnittene Zeile, damit der Worker an einer Zeilengrenze beginnt
func NewTokenReaderAt(src io.ReadSeeker, off int64) (*TokenReader, error) {
	t := &TokenReader{
		src:  src,
		base: off,
		r:    bufio.NewReaderSize(nil, 64<<10),
		tok:  make([]byte, 0, 64),
	}
	if err := t.seekTo(off); err != nil {
		return nil, err
	}
	if off > 0 {
		if err := t.SkipLine(); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	return t, nil
}

// Read liefert das naechste Token oder io.EOF am Stromende
func (t *TokenReader) Read() (string, error) {
	if t.eof {
		return "", io.EOF
	}
	t.tok = t.tok[:0]
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.eof = true
				if len(t.tok) > 0 {
					return string(t.tok), nil
				}
				return "", io.EOF
			}
			return "", err
		}
		switch c {
		case ' ', '\t', '\v', '\f', '\r', 0:
			if len(t.tok) == 0 {
				continue
			}
			return string(t.tok), nil
		case '\n':
			if len(t.tok) == 0 {
				return EOS, nil
			}
			// Newline zuruecklegen, naechster Aufruf liefert EOS
			if err := t.r.UnreadByte(); err != nil {
				return "", err
			}
			return string(t.tok), nil
		default:
			t.tok = append(t.tok, c)
		}
	}
}

// SkipLine verwirft Bytes bis einschliesslich zum naechsten Newline
func (t *TokenReader) SkipLine() error {
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.eof = true
			}
			return err
		}
		if c == '\n' {
			return nil
		}
	}
}

// Rewind setzt den Strom auf den Startoffset der Partition zurueck.
// Liegt hinter dem Offset keine vollstaendige Zeile mehr, wird ab
// Dateianfang gelesen, damit der Worker nicht leer laeuft.
func (t *TokenReader) Rewind() error {
	if t.src == nil {
		return ErrNotSeekable
	}
	if err := t.seekTo(t.base); err != nil {
		return err
	}
	if t.base == 0 {
		return nil
	}
	if err := t.SkipLine(); err != nil {
		if errors.Is(err, io.EOF) {
			return t.seekTo(0)
		}
		return err
	}
	return nil
}

func (t *TokenReader) seekTo(off int64) error {
	if _, err := t.src.Seek(off, io.SeekStart); err != nil {
		return err
	}
	src := io.Reader(t.src)
	if off == 0 {
		src = stripBOM(t.src)
	}
	t.r.Reset(src)
	t.eof = false
	return nil
}

// stripBOM entfernt eine fuehrende BOM und dekodiert UTF-16-Korpora
// transparent nach UTF-8
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

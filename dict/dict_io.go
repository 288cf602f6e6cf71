// dict_io.go - Binaere Persistenz des Woerterbuchs
//
// Dieses Modul enthaelt:
// - Save: Kopfzahlen und Eintraege im Little-Endian-Format
// - Load: Rekonstruktion samt Lookup-Tabelle, Discard-Tabelle und N-Grams
//
// Format: size int32, nwords int32, nlabels int32, ntokens int64,
// danach pro Eintrag laengen-praefixiertes Wort, count int64, type uint8.
// Subwords werden nicht gespeichert, sie sind aus Wort und Optionen
// reproduzierbar.
package dict

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/wortvek/wortvek/args"
)

// ErrCorrupt meldet inkonsistente Woerterbuch-Daten
var ErrCorrupt = errors.New("dictionary data corrupted")

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Save schreibt das Woerterbuch
func (d *Dictionary) Save(w io.Writer) error {
	head := []any{int32(len(d.words)), d.nwords, d.nlabels, d.ntokens}
	for _, v := range head {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write dict: %w", err)
		}
	}
	for i := range d.words {
		e := &d.words[i]
		if err := writeString(w, e.Word); err != nil {
			return fmt.Errorf("write dict entry %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.Count); err != nil {
			return fmt.Errorf("write dict entry %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(e.Type)); err != nil {
			return fmt.Errorf("write dict entry %d: %w", i, err)
		}
	}
	return nil
}

// Load liest ein gespeichertes Woerterbuch und baut die abgeleiteten
// Tabellen neu auf
func Load(r io.Reader, a *args.Args) (*Dictionary, error) {
	var size, nwords, nlabels int32
	var ntokens int64
	for _, v := range []any{&size, &nwords, &nlabels, &ntokens} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("read dict: %w", err)
		}
	}
	if size < 0 || nwords < 0 || nlabels < 0 || nwords+nlabels != size {
		return nil, fmt.Errorf("%w: size=%d nwords=%d nlabels=%d", ErrCorrupt, size, nwords, nlabels)
	}

	d := &Dictionary{
		args:     a,
		words:    make([]Entry, 0, size),
		word2int: make(map[string]int32, size),
		nwords:   nwords,
		nlabels:  nlabels,
		ntokens:  ntokens,
	}
	for i := int32(0); i < size; i++ {
		word, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("read dict entry %d: %w", i, err)
		}
		var count int64
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("read dict entry %d: %w", i, err)
		}
		var typ uint8
		if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
			return nil, fmt.Errorf("read dict entry %d: %w", i, err)
		}
		if EntryType(typ) != EntryWord && EntryType(typ) != EntryLabel {
			return nil, fmt.Errorf("%w: entry %d has type %d", ErrCorrupt, i, typ)
		}
		d.words = append(d.words, Entry{Word: word, Count: count, Type: EntryType(typ)})
		d.word2int[word] = i
	}
	d.initTableDiscard()
	d.initNgrams()
	return d, nil
}

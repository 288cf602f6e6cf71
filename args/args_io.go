// args_io.go - Binaere Persistenz der Trainingsoptionen
//
// Dieses Modul enthaelt:
// - Save/Load: Feste Feldreihenfolge im Little-Endian-Format
// - Hilfsfunktionen fuer laengen-praefixierte Strings
//
// Die Reihenfolge der Felder ist Teil des Dateiformats und darf nicht
// geaendert werden: dim, ws, epoch, minCount, minCountLabel, neg,
// wordNgrams, loss, model, bucket, minn, maxn, lrUpdateRate, t, lr,
// label, saveF16.
package args

import (
	"encoding/binary"
	"fmt"
	"io"
)

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

// Save schreibt die persistierten Felder in fester Reihenfolge
func (a *Args) Save(w io.Writer) error {
	ints := []int32{
		int32(a.Dim), int32(a.WS), int32(a.Epoch),
		int32(a.MinCount), int32(a.MinCountLabel),
		int32(a.Neg), int32(a.WordNgrams),
		int32(a.Loss), int32(a.Model), int32(a.Bucket),
		int32(a.Minn), int32(a.Maxn), int32(a.LRUpdateRate),
	}
	for _, v := range ints {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write args: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, a.T); err != nil {
		return fmt.Errorf("write args: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, a.LR); err != nil {
		return fmt.Errorf("write args: %w", err)
	}
	if err := writeString(w, a.Label); err != nil {
		return fmt.Errorf("write args: %w", err)
	}
	var f16 uint8
	if a.SaveF16 {
		f16 = 1
	}
	if err := binary.Write(w, binary.LittleEndian, f16); err != nil {
		return fmt.Errorf("write args: %w", err)
	}
	return nil
}

// Load liest die persistierten Felder in derselben Reihenfolge
func (a *Args) Load(r io.Reader) error {
	ints := make([]int32, 13)
	for i := range ints {
		if err := binary.Read(r, binary.LittleEndian, &ints[i]); err != nil {
			return fmt.Errorf("read args: %w", err)
		}
	}
	a.Dim = int(ints[0])
	a.WS = int(ints[1])
	a.Epoch = int(ints[2])
	a.MinCount = int(ints[3])
	a.MinCountLabel = int(ints[4])
	a.Neg = int(ints[5])
	a.WordNgrams = int(ints[6])
	a.Loss = LossName(ints[7])
	a.Model = ModelName(ints[8])
	a.Bucket = int(ints[9])
	a.Minn = int(ints[10])
	a.Maxn = int(ints[11])
	a.LRUpdateRate = int(ints[12])

	if err := binary.Read(r, binary.LittleEndian, &a.T); err != nil {
		return fmt.Errorf("read args: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &a.LR); err != nil {
		return fmt.Errorf("read args: %w", err)
	}
	label, err := readString(r)
	if err != nil {
		return fmt.Errorf("read args: %w", err)
	}
	a.Label = label
	var f16 uint8
	if err := binary.Read(r, binary.LittleEndian, &f16); err != nil {
		return fmt.Errorf("read args: %w", err)
	}
	a.SaveF16 = f16 == 1
	return nil
}

// Package ml - Numerische Primitive und Update-Engine
//
// Dieses Modul enthaelt:
// - Matrix: Flacher float32-Parameterspeicher in Zeilen-Major-Ordnung
// - Vector: Arbeitsvektor fuer Hidden-State und Gradienten
// - Zeilenoperationen ueber gonum/blas32
//
// Die Matrizen werden waehrend des Trainings von allen Workern ohne
// Synchronisation beschrieben. Das ist nur deshalb speichersicher,
// weil der Speicher einmal allokiert und nie umgehaengt wird: jede
// Zeile bleibt fuer die gesamte Lebensdauer an ihrer Adresse.
package ml

import (
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/stat/distuv"
)

// Matrix ist ein dichter float32-Speicher mit Rows*Cols Eintraegen
type Matrix struct {
	Rows, Cols int
	Data       []float32
}

// NewMatrix allokiert eine Nullmatrix
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]float32, rows*cols),
	}
}

// Zero setzt alle Eintraege auf null
func (m *Matrix) Zero() {
	clear(m.Data)
}

// Uniform fuellt die Matrix gleichverteilt aus [-a, a]
func (m *Matrix) Uniform(a float64, src rand.Source) {
	u := distuv.Uniform{Min: -a, Max: a, Src: src}
	for i := range m.Data {
		m.Data[i] = float32(u.Rand())
	}
}

// Row liefert die Zeile i als Slice auf den Originalspeicher
func (m *Matrix) Row(i int32) []float32 {
	return m.Data[int(i)*m.Cols : (int(i)+1)*m.Cols]
}

func (m *Matrix) rowVec(i int32) blas32.Vector {
	return blas32.Vector{N: m.Cols, Inc: 1, Data: m.Row(i)}
}

// General liefert die blas32-Sicht auf die ganze Matrix
func (m *Matrix) General() blas32.General {
	return blas32.General{Rows: m.Rows, Cols: m.Cols, Stride: m.Cols, Data: m.Data}
}

// AddRow addiert a*v auf die Zeile i
func (m *Matrix) AddRow(v Vector, i int32, a float32) {
	blas32.Axpy(a, v.blas(), m.rowVec(i))
}

// DotRow liefert das Skalarprodukt von Zeile i mit v
func (m *Matrix) DotRow(v Vector, i int32) float32 {
	return blas32.Dot(m.rowVec(i), v.blas())
}

// Vector ist ein dichter float32-Vektor
type Vector struct {
	Data []float32
}

// NewVector allokiert einen Nullvektor
func NewVector(n int) Vector {
	return Vector{Data: make([]float32, n)}
}

func (v Vector) blas() blas32.Vector {
	return blas32.Vector{N: len(v.Data), Inc: 1, Data: v.Data}
}

// Size liefert die Dimension
func (v Vector) Size() int {
	return len(v.Data)
}

// Zero setzt alle Komponenten auf null
func (v Vector) Zero() {
	clear(v.Data)
}

// Mul skaliert den Vektor in place
func (v Vector) Mul(a float32) {
	blas32.Scal(a, v.blas())
}

// Norm liefert die euklidische Norm
func (v Vector) Norm() float32 {
	return blas32.Nrm2(v.blas())
}

// Dot liefert das Skalarprodukt zweier Vektoren
func Dot(a, b Vector) float32 {
	return blas32.Dot(a.blas(), b.blas())
}

// AddRow addiert die Zeile i der Matrix auf den Vektor
func (v Vector) AddRow(m *Matrix, i int32) {
	blas32.Axpy(1, m.rowVec(i), v.blas())
}

// AddRowScaled addiert a mal die Zeile i der Matrix auf den Vektor
func (v Vector) AddRowScaled(m *Matrix, i int32, a float32) {
	blas32.Axpy(a, m.rowVec(i), v.blas())
}

// MulMatVec ueberschreibt den Vektor mit M*x
func (v Vector) MulMatVec(m *Matrix, x Vector) {
	blas32.Gemv(blas.NoTrans, 1, m.General(), x.blas(), 0, v.blas())
}

// String formatiert die Komponenten leerzeichengetrennt in der
// kompaktesten Dezimaldarstellung, wie sie .vec-Dateien verwenden
func (v Vector) String() string {
	var sb strings.Builder
	for i, x := range v.Data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
	}
	return sb.String()
}

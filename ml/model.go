// model.go - Update-Engine fuer einen Worker
//
// Dieses Modul enthaelt:
// - Model: Ein Update-Handle pro Worker auf den geteilten Matrizen
// - Negative Sampling, Hierarchical Softmax und Softmax-Loss
// - Predict: Top-k-Suche ueber Heap bzw. Baum-Tiefensuche
// - Sigmoid- und Log-Lookup-Tabellen
//
// Jeder Worker haelt sein eigenes Model mit privaten Arbeitsvektoren
// und eigenem Zufallsgenerator; nur die Matrizen dahinter sind geteilt
// und werden bewusst ohne Sperren beschrieben.
package ml

import (
	"cmp"
	"fmt"
	"math"

	"github.com/emirpasic/gods/v2/trees/binaryheap"
	"golang.org/x/exp/rand"

	"github.com/wortvek/wortvek/args"
)

const (
	sigmoidTableSize = 512
	maxSigmoid       = 8
	logTableSize     = 512

	negativeTableSize = 10_000_000
)

var (
	sigmoidTable = initSigmoidTable()
	logTable     = initLogTable()
)

func initSigmoidTable() [sigmoidTableSize + 1]float32 {
	var t [sigmoidTableSize + 1]float32
	for i := range t {
		x := float64(i*2*maxSigmoid)/sigmoidTableSize - maxSigmoid
		t[i] = float32(1.0 / (1.0 + math.Exp(-x)))
	}
	return t
}

func initLogTable() [logTableSize + 1]float32 {
	var t [logTableSize + 1]float32
	for i := range t {
		x := (float64(i) + 1e-5) / logTableSize
		t[i] = float32(math.Log(x))
	}
	return t
}

// Prediction ist ein Top-k-Treffer mit Log-Wahrscheinlichkeit
type Prediction struct {
	Score float32
	ID    int32
}

type treeNode struct {
	parent int32
	left   int32
	right  int32
	count  int64
	binary bool
}

// Model buendelt die Matrizen mit den privaten Arbeitspuffern eines
// Workers. Ein Model darf nie von mehreren Goroutinen gleichzeitig
// benutzt werden, die Matrizen dahinter schon.
type Model struct {
	wi   *Matrix
	wo   *Matrix
	args *args.Args
	osz  int32

	hidden Vector
	output Vector
	grad   Vector

	rng *rand.Rand

	// Negative Sampling
	negatives []int32
	negpos    int

	// Hierarchical Softmax
	tree  []treeNode
	paths [][]int32
	codes [][]bool

	loss      float64
	nexamples int64
}

// NewModel erzeugt ein Update-Handle. Der Seed bestimmt den privaten
// Zufallsgenerator, Worker seeden mit ihrem Index.
func NewModel(wi, wo *Matrix, a *args.Args, seed uint64) *Model {
	return &Model{
		wi:        wi,
		wo:        wo,
		args:      a,
		osz:       int32(wo.Rows),
		hidden:    NewVector(a.Dim),
		output:    NewVector(wo.Rows),
		grad:      NewVector(a.Dim),
		rng:       rand.New(rand.NewSource(seed)),
		nexamples: 1,
	}
}

// Rng liefert den privaten Zufallsgenerator des Handles
func (m *Model) Rng() *rand.Rand {
	return m.rng
}

// SetTargetCounts initialisiert die Sampling-Tabelle bzw. den
// Huffman-Baum aus der Zielverteilung. Muss vor Update und Predict
// genau einmal aufgerufen werden.
func (m *Model) SetTargetCounts(counts []int64) error {
	if int32(len(counts)) != m.osz {
		return fmt.Errorf("target counts: got %d, output size is %d", len(counts), m.osz)
	}
	if m.args.Loss == args.LossNegativeSampling {
		m.initTableNegatives(counts)
	}
	if m.args.Loss == args.LossHierarchicalSoftmax {
		m.buildTree(counts)
	}
	return nil
}

// initTableNegatives fuellt die Sampling-Tabelle proportional zu
// count^0.5 und mischt sie einmal
func (m *Model) initTableNegatives(counts []int64) {
	var z float64
	for _, c := range counts {
		z += math.Sqrt(float64(c))
	}
	m.negatives = m.negatives[:0]
	for i, c := range counts {
		n := int(math.Sqrt(float64(c)) * negativeTableSize / z)
		for j := 0; j < n; j++ {
			m.negatives = append(m.negatives, int32(i))
		}
	}
	m.rng.Shuffle(len(m.negatives), func(i, j int) {
		m.negatives[i], m.negatives[j] = m.negatives[j], m.negatives[i]
	})
}

// getNegative zieht das naechste negative Sample, nie das Ziel selbst
func (m *Model) getNegative(target int32) int32 {
	for {
		neg := m.negatives[m.negpos]
		m.negpos = (m.negpos + 1) % len(m.negatives)
		if neg != target {
			return neg
		}
	}
}

// buildTree baut den Huffman-Baum ueber 2*osz-1 Knoten. Die counts
// muessen absteigend sortiert sein, so wie das Woerterbuch die Ids
// vergibt; dadurch reicht ein Zwei-Zeiger-Merge.
func (m *Model) buildTree(counts []int64) {
	m.tree = make([]treeNode, 2*m.osz-1)
	for i := range m.tree {
		m.tree[i] = treeNode{parent: -1, left: -1, right: -1, count: 1e15}
	}
	for i := int32(0); i < m.osz; i++ {
		m.tree[i].count = counts[i]
	}
	leaf := m.osz - 1
	node := m.osz
	for i := m.osz; i < 2*m.osz-1; i++ {
		var mini [2]int32
		for j := 0; j < 2; j++ {
			if leaf >= 0 && m.tree[leaf].count < m.tree[node].count {
				mini[j] = leaf
				leaf--
			} else {
				mini[j] = node
				node++
			}
		}
		m.tree[i].left = mini[0]
		m.tree[i].right = mini[1]
		m.tree[i].count = m.tree[mini[0]].count + m.tree[mini[1]].count
		m.tree[mini[0]].parent = i
		m.tree[mini[1]].parent = i
		m.tree[mini[1]].binary = true
	}

	m.paths = make([][]int32, m.osz)
	m.codes = make([][]bool, m.osz)
	for i := int32(0); i < m.osz; i++ {
		var path []int32
		var code []bool
		for j := i; m.tree[j].parent != -1; j = m.tree[j].parent {
			path = append(path, m.tree[j].parent-m.osz)
			code = append(code, m.tree[j].binary)
		}
		m.paths[i] = path
		m.codes[i] = code
	}
}

// binaryLogistic macht einen logistischen Gradientenschritt gegen die
// Output-Zeile target und sammelt den Input-Gradienten in grad
func (m *Model) binaryLogistic(target int32, label bool, lr float64) float64 {
	score := m.sigmoid(m.wo.DotRow(m.hidden, target))
	var y float64
	if label {
		y = 1
	}
	alpha := float32(lr * (y - float64(score)))
	m.grad.AddRowScaled(m.wo, target, alpha)
	m.wo.AddRow(m.hidden, target, alpha)
	if label {
		return -float64(m.log(score))
	}
	return -float64(m.log(1.0 - score))
}

func (m *Model) negativeSampling(target int32, lr float64) float64 {
	var loss float64
	m.grad.Zero()
	for n := 0; n <= m.args.Neg; n++ {
		if n == 0 {
			loss += m.binaryLogistic(target, true, lr)
		} else {
			loss += m.binaryLogistic(m.getNegative(target), false, lr)
		}
	}
	return loss
}

func (m *Model) hierarchicalSoftmax(target int32, lr float64) float64 {
	var loss float64
	m.grad.Zero()
	path := m.paths[target]
	code := m.codes[target]
	for i := range path {
		loss += m.binaryLogistic(path[i], code[i], lr)
	}
	return loss
}

// computeOutputSoftmax fuellt output mit der Softmax-Verteilung
func (m *Model) computeOutputSoftmax(hidden, output Vector) {
	output.MulMatVec(m.wo, hidden)
	max := output.Data[0]
	for _, v := range output.Data {
		if v > max {
			max = v
		}
	}
	var z float64
	for i, v := range output.Data {
		e := float32(math.Exp(float64(v - max)))
		output.Data[i] = e
		z += float64(e)
	}
	for i := range output.Data {
		output.Data[i] /= float32(z)
	}
}

func (m *Model) softmax(target int32, lr float64) float64 {
	m.grad.Zero()
	m.computeOutputSoftmax(m.hidden, m.output)
	for i := int32(0); i < m.osz; i++ {
		var y float64
		if i == target {
			y = 1
		}
		alpha := float32(lr * (y - float64(m.output.Data[i])))
		m.grad.AddRowScaled(m.wo, i, alpha)
		m.wo.AddRow(m.hidden, i, alpha)
	}
	return -float64(m.log(m.output.Data[target]))
}

// computeHidden mittelt die Input-Zeilen der Features
func (m *Model) computeHidden(input []int32, hidden Vector) {
	hidden.Zero()
	for _, i := range input {
		hidden.AddRow(m.wi, i)
	}
	hidden.Mul(1.0 / float32(len(input)))
}

// Update macht einen Gradientenschritt fuer ein Beispiel. Leerer Input
// ist ein gueltiges No-op. Die Matrizen werden in place veraendert,
// der Verlust laeuft im privaten Akkumulator mit.
func (m *Model) Update(input []int32, target int32, lr float64) {
	if len(input) == 0 {
		return
	}
	m.computeHidden(input, m.hidden)
	switch m.args.Loss {
	case args.LossNegativeSampling:
		m.loss += m.negativeSampling(target, lr)
	case args.LossHierarchicalSoftmax:
		m.loss += m.hierarchicalSoftmax(target, lr)
	default:
		m.loss += m.softmax(target, lr)
	}
	m.nexamples++

	// Beim Klassifikator wird der Gradient ueber die Features gemittelt
	if m.args.Model == args.ModelSupervised {
		m.grad.Mul(1.0 / float32(len(input)))
	}
	for _, i := range input {
		m.wi.AddRow(m.grad, i, 1.0)
	}
}

// Predict liefert die Top-k-Ziele absteigend nach Log-Wahrscheinlichkeit.
// Bei Gleichstand gewinnt die kleinere Id.
func (m *Model) Predict(input []int32, k int) []Prediction {
	return m.PredictWith(input, k, m.hidden, m.output)
}

// PredictWith rechnet mit fremden Arbeitspuffern, etwa fuer Aufrufer,
// die das geteilte Model nicht anfassen duerfen
func (m *Model) PredictWith(input []int32, k int, hidden, output Vector) []Prediction {
	if k <= 0 || len(input) == 0 {
		return nil
	}
	m.computeHidden(input, hidden)

	// Min-Heap: bei vollem Heap verdraengt jeder bessere Treffer den
	// schlechtesten, bei Punktgleichheit faellt die groessere Id zuerst
	heap := binaryheap.NewWith(func(a, b Prediction) int {
		if a.Score != b.Score {
			return cmp.Compare(a.Score, b.Score)
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if m.args.Loss == args.LossHierarchicalSoftmax {
		m.dfs(k, 2*m.osz-2, 0, heap, hidden)
	} else {
		m.findKBest(k, heap, hidden, output)
	}

	preds := make([]Prediction, heap.Size())
	for i := len(preds) - 1; i >= 0; i-- {
		p, _ := heap.Pop()
		preds[i] = p
	}
	return preds
}

func (m *Model) findKBest(k int, heap *binaryheap.Heap[Prediction], hidden, output Vector) {
	m.computeOutputSoftmax(hidden, output)
	for i := int32(0); i < m.osz; i++ {
		score := stdLog(output.Data[i])
		if heap.Size() == k {
			if worst, ok := heap.Peek(); ok && score < worst.Score {
				continue
			}
		}
		heap.Push(Prediction{Score: score, ID: i})
		if heap.Size() > k {
			heap.Pop()
		}
	}
}

// dfs steigt den Baum ab und schneidet Teilbaeume, deren Pfad-Score
// schon unter dem schlechtesten Treffer liegt
func (m *Model) dfs(k int, node int32, score float32, heap *binaryheap.Heap[Prediction], hidden Vector) {
	if heap.Size() == k {
		if worst, ok := heap.Peek(); ok && score < worst.Score {
			return
		}
	}
	if m.tree[node].left == -1 && m.tree[node].right == -1 {
		heap.Push(Prediction{Score: score, ID: node})
		if heap.Size() > k {
			heap.Pop()
		}
		return
	}
	f := m.sigmoid(m.wo.DotRow(hidden, node-m.osz))
	m.dfs(k, m.tree[node].left, score+stdLog(1.0-f), heap, hidden)
	m.dfs(k, m.tree[node].right, score+stdLog(f), heap, hidden)
}

// Loss liefert den laufenden Durchschnittsverlust des Handles
func (m *Model) Loss() float64 {
	return m.loss / float64(m.nexamples)
}

func (m *Model) sigmoid(x float32) float32 {
	switch {
	case x < -maxSigmoid:
		return 0
	case x > maxSigmoid:
		return 1
	default:
		i := int((x + maxSigmoid) * sigmoidTableSize / maxSigmoid / 2)
		return sigmoidTable[i]
	}
}

func (m *Model) log(x float32) float32 {
	if x > 1.0 {
		return 0
	}
	return logTable[int(x*logTableSize)]
}

// stdLog ist der exakte Logarithmus fuer Vorhersage-Scores. Das
// Training rechnet weiter ueber die Tabelle, gemeldete Scores sollen
// die Quantisierung nicht tragen.
func stdLog(x float32) float32 {
	return float32(math.Log(float64(x) + 1e-5))
}

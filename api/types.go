// types.go - Request- und Response-Typen der HTTP-API
// Enthaelt: StatusError sowie die Typen fuer Predict, Embed, NN,
// Analogy, Show und Version
package api

import "fmt"

// StatusError ist ein Fehler mit HTTP-Statuscode und Meldung
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		return "something went wrong, please see the wortvek server logs for details"
	}
}

// PredictRequest ist eine Klassifikationsanfrage fuer eine Textzeile
type PredictRequest struct {
	Text string `json:"text"`
	K    int    `json:"k,omitempty"`
}

// Prediction ist ein einzelnes Label mit Log-Wahrscheinlichkeit
type Prediction struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

// PredictResponse enthaelt die Top-k-Labels absteigend nach Score
type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// EmbedRequest fragt den Vektor eines Wortes oder einer Textzeile ab.
// Genau eines der beiden Felder muss gesetzt sein.
type EmbedRequest struct {
	Word string `json:"word,omitempty"`
	Text string `json:"text,omitempty"`
}

// EmbedResponse enthaelt den angefragten Vektor
type EmbedResponse struct {
	Vector []float32 `json:"vector"`
}

// NNRequest fragt die naechsten Nachbarn eines Wortes ab
type NNRequest struct {
	Word string `json:"word"`
	K    int    `json:"k,omitempty"`
}

// AnalogyRequest fragt a:b wie c:? ab
type AnalogyRequest struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	K int    `json:"k,omitempty"`
}

// Neighbor ist ein Treffer der Nachbarsuche
type Neighbor struct {
	Word       string  `json:"word"`
	Similarity float32 `json:"similarity"`
}

// NNResponse enthaelt die Nachbarn absteigend nach Aehnlichkeit
type NNResponse struct {
	Neighbors []Neighbor `json:"neighbors"`
}

// ShowResponse beschreibt das geladene Modell
type ShowResponse struct {
	Model      string `json:"model"`
	Loss       string `json:"loss"`
	Dim        int    `json:"dim"`
	Words      int    `json:"words"`
	Labels     int    `json:"labels"`
	Tokens     int64  `json:"tokens"`
	Bucket     int    `json:"bucket"`
	Minn       int    `json:"minn"`
	Maxn       int    `json:"maxn"`
	WordNgrams int    `json:"word_ngrams"`
}

// VersionResponse enthaelt die Serverversion
type VersionResponse struct {
	Version string `json:"version"`
}

// handlers.go - Die Inferenz-Handler des Servers
//
// Dieses Modul enthaelt:
// - PredictHandler, EmbedHandler, NNHandler, AnalogyHandler, ShowHandler
//
// Jeder Handler bindet seine Anfrage, haelt fuer den Modellzugriff das
// Semaphor und antwortet mit den api-Typen.
package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wortvek/wortvek/api"
	"github.com/wortvek/wortvek/model"
)

const (
	defaultPredictK  = 1
	defaultNeighborK = 10
)

// bindRequest liest den JSON-Body in req und beantwortet Bind-Fehler
// direkt. Liefert false, wenn der Handler abbrechen soll.
func bindRequest(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	switch {
	case errors.Is(err, io.EOF):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return false
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// acquire serialisiert den Zugriff auf das Modell. Liefert false, wenn
// der Client vorher abgebrochen hat.
func (s *Server) acquire(c *gin.Context) bool {
	if err := s.sem.Acquire(c.Request.Context(), 1); err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
		return false
	}
	return true
}

// PredictHandler verarbeitet /api/predict Anfragen
func (s *Server) PredictHandler(c *gin.Context) {
	var req api.PredictRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusOK, api.PredictResponse{Predictions: []api.Prediction{}})
		return
	}
	k := req.K
	if k <= 0 {
		k = defaultPredictK
	}

	if !s.acquire(c) {
		return
	}
	preds := s.model.Predict(req.Text, k)
	s.sem.Release(1)

	resp := api.PredictResponse{Predictions: make([]api.Prediction, 0, len(preds))}
	for _, p := range preds {
		resp.Predictions = append(resp.Predictions, api.Prediction{Label: p.Label, Score: p.Score})
	}
	c.JSON(http.StatusOK, resp)
}

// EmbedHandler verarbeitet /api/embed Anfragen
func (s *Server) EmbedHandler(c *gin.Context) {
	var req api.EmbedRequest
	if !bindRequest(c, &req) {
		return
	}
	switch {
	case req.Word == "" && req.Text == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "word or text is required"})
		return
	case req.Word != "" && req.Text != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "word and text are mutually exclusive"})
		return
	}

	if !s.acquire(c) {
		return
	}
	var data []float32
	if req.Word != "" {
		data = s.model.WordVector(req.Word).Data
	} else {
		data = s.model.TextVector(req.Text).Data
	}
	s.sem.Release(1)

	c.JSON(http.StatusOK, api.EmbedResponse{Vector: data})
}

// NNHandler verarbeitet /api/nn Anfragen
func (s *Server) NNHandler(c *gin.Context) {
	var req api.NNRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.Word == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
		return
	}
	k := req.K
	if k <= 0 {
		k = defaultNeighborK
	}

	if !s.acquire(c) {
		return
	}
	neighbors := s.model.NN(req.Word, k)
	s.sem.Release(1)

	c.JSON(http.StatusOK, neighborResponse(neighbors))
}

// AnalogyHandler verarbeitet /api/analogy Anfragen
func (s *Server) AnalogyHandler(c *gin.Context) {
	var req api.AnalogyRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.A == "" || req.B == "" || req.C == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a, b and c are required"})
		return
	}
	k := req.K
	if k <= 0 {
		k = defaultNeighborK
	}

	if !s.acquire(c) {
		return
	}
	neighbors := s.model.Analogy(req.A, req.B, req.C, k)
	s.sem.Release(1)

	c.JSON(http.StatusOK, neighborResponse(neighbors))
}

// ShowHandler beschreibt das geladene Modell. Optionen und Woerterbuch
// sind nach dem Laden unveraenderlich, das Semaphor ist nicht noetig.
func (s *Server) ShowHandler(c *gin.Context) {
	a := s.model.Args()
	d := s.model.Dict()
	c.JSON(http.StatusOK, api.ShowResponse{
		Model:      a.Model.String(),
		Loss:       a.Loss.String(),
		Dim:        a.Dim,
		Words:      int(d.NWords()),
		Labels:     int(d.NLabels()),
		Tokens:     d.NTokens(),
		Bucket:     a.Bucket,
		Minn:       a.Minn,
		Maxn:       a.Maxn,
		WordNgrams: a.WordNgrams,
	})
}

func neighborResponse(neighbors []model.Neighbor) api.NNResponse {
	resp := api.NNResponse{Neighbors: make([]api.Neighbor, 0, len(neighbors))}
	for _, n := range neighbors {
		resp.Neighbors = append(resp.Neighbors, api.Neighbor{Word: n.Word, Similarity: n.Similarity})
	}
	return resp
}

// Package api - HTTP-Client fuer den wortvek Inferenz-Server
//
// Dieses Modul enthaelt die Client-Struktur und die Basis-Methoden;
// die Typen der Requests und Responses liegen in types.go. Die
// Kommandozeile benutzt dieses Paket fuer alle Serveraufrufe.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"

	"github.com/wortvek/wortvek/envconfig"
	"github.com/wortvek/wortvek/version"
)

// Client kapselt den Zustand fuer Anfragen an den wortvek-Server.
// Neue Clients kommen aus [ClientFromEnvironment].
type Client struct {
	base *url.URL
	http *http.Client
}

// ClientFromEnvironment baut einen Client gegen den Host aus
// WORTVEK_HOST beziehungsweise den Default
func ClientFromEnvironment() (*Client, error) {
	return &Client{
		base: envconfig.Host(),
		http: http.DefaultClient,
	}, nil
}

func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{
		base: base,
		http: http,
	}
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	if err := json.Unmarshal(body, &apiError); err != nil {
		// Wenn der Body kein JSON ist, ist er selbst die Meldung
		apiError.ErrorMessage = string(body)
	}
	return apiError
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	requestURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("wortvek/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := checkError(resp, body); err != nil {
		return err
	}
	if len(body) > 0 && respData != nil {
		return json.Unmarshal(body, respData)
	}
	return nil
}

// Predict klassifiziert eine Textzeile
func (c *Client) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	var resp PredictResponse
	if err := c.do(ctx, http.MethodPost, "/api/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Embed liefert den Vektor eines Wortes oder einer Textzeile
func (c *Client) Embed(ctx context.Context, req *EmbedRequest) (*EmbedResponse, error) {
	var resp EmbedResponse
	if err := c.do(ctx, http.MethodPost, "/api/embed", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NN liefert die naechsten Nachbarn eines Wortes
func (c *Client) NN(ctx context.Context, req *NNRequest) (*NNResponse, error) {
	var resp NNResponse
	if err := c.do(ctx, http.MethodPost, "/api/nn", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analogy loest a:b wie c:?
func (c *Client) Analogy(ctx context.Context, req *AnalogyRequest) (*NNResponse, error) {
	var resp NNResponse
	if err := c.do(ctx, http.MethodPost, "/api/analogy", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Show beschreibt das geladene Modell
func (c *Client) Show(ctx context.Context) (*ShowResponse, error) {
	var resp ShowResponse
	if err := c.do(ctx, http.MethodGet, "/api/show", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Version holt die Serverversion
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

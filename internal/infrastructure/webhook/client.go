// Package webhook envía los comprobantes confirmados al flujo de automatización (n8n).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/pkg/jsonsafe"
)

// maxResponseBytes tope de lectura de la respuesta del flujo.
const maxResponseBytes = 4 << 20

// Client implementa billing.WebhookSender con un POST JSON.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient construye el cliente. El flujo remoto puede tardar minutos: el timeout se configura
// (WEBHOOK_TIMEOUT_SECONDS, 300 por defecto).
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL destino configurado.
func (c *Client) URL() string { return c.url }

// Send serializa el payload (fechas normalizadas a DD/MM/YYYY) y lo envía.
// Éxito si el status es 2xx. Un cuerpo JSON se conserva; cualquier otro se envuelve en
// {"raw_text": "..."}. Solo las fallas de transporte devuelven error.
func (c *Client) Send(ctx context.Context, payload any) (*entity.SubmissionResult, error) {
	body, err := json.Marshal(jsonsafe.Sanitize(payload))
	if err != nil {
		return nil, fmt.Errorf("webhook: serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("webhook: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("webhook: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("webhook: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("webhook: leer respuesta: %w", err)
	}

	return &entity.SubmissionResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Response:   decodeBody(resp.Header.Get("Content-Type"), raw),
	}, nil
}

func decodeBody(contentType string, raw []byte) json.RawMessage {
	if strings.Contains(strings.ToLower(contentType), "application/json") && json.Valid(raw) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.Bytes()
		}
	}
	wrapped, _ := json.Marshal(map[string]string{"raw_text": string(raw)})
	return wrapped
}

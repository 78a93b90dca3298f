package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimizar-ia/facturador/internal/infrastructure/webhook"
)

type draft struct {
	Tipo  string    `json:"tipo_factura"`
	Fecha time.Time `json:"fecha_inicio"`
}

func TestSend_JSONExitoso(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{ "status": "ok", "cae": "123" }`))
	}))
	defer srv.Close()

	c := webhook.NewClient(srv.URL, 5*time.Second)
	res, err := c.Send(context.Background(), draft{Tipo: "Factura A", Fecha: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok","cae":"123"}`, string(res.Response))
	// la fecha viaja como DD/MM/YYYY
	assert.Equal(t, "31/01/2026", received["fecha_inicio"])
	assert.Equal(t, "Factura A", received["tipo_factura"])
}

func TestSend_TextoPlanoSeEnvuelve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Workflow was started"))
	}))
	defer srv.Close()

	res, err := webhook.NewClient(srv.URL, 5*time.Second).Send(context.Background(), map[string]any{"a": 1})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.JSONEq(t, `{"raw_text":"Workflow was started"}`, string(res.Response))
}

func TestSend_JSONInvalidoSeTrataComoTexto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("no es json"))
	}))
	defer srv.Close()

	res, err := webhook.NewClient(srv.URL, 5*time.Second).Send(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw_text":"no es json"}`, string(res.Response))
}

func TestSend_Non2xxNoEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Error in workflow"}`))
	}))
	defer srv.Close()

	res, err := webhook.NewClient(srv.URL, 5*time.Second).Send(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.False(t, res.OK)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.JSONEq(t, `{"message":"Error in workflow"}`, string(res.Response))
}

func TestSend_RedirectNoEsExito(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	res, err := webhook.NewClient(srv.URL, 5*time.Second).Send(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusNotModified, res.StatusCode)
}

func TestSend_ErrorDeTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res, err := webhook.NewClient(url, time.Second).Send(context.Background(), map[string]any{})
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := webhook.NewClient(srv.URL, 20*time.Millisecond).Send(context.Background(), map[string]any{})
	assert.Error(t, err)
}

// Package storage guarda la copia local (JSON) de cada factura enviada.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/optimizar-ia/facturador/pkg/jsonsafe"
)

// JSONArchive implementa billing.PayloadArchive sobre un afero.Fs.
// Archivos: <dir>/<prefix>_YYYYMMDD_HHMMSS.json, UTF-8, indentado con dos espacios.
// Dos envíos en el mismo segundo escriben el mismo archivo; el último prevalece.
type JSONArchive struct {
	fs     afero.Fs
	dir    string
	prefix string
}

// NewJSONArchive construye el archivo local. fs nil usa el sistema de archivos real.
func NewJSONArchive(fs afero.Fs, dir, prefix string) *JSONArchive {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if prefix == "" {
		prefix = "invoice"
	}
	return &JSONArchive{fs: fs, dir: dir, prefix: prefix}
}

// FileName nombre del archivo para el instante dado.
func (a *JSONArchive) FileName(at time.Time) string {
	return fmt.Sprintf("%s_%s.json", a.prefix, at.Format("20060102_150405"))
}

// Save serializa el payload (fechas a DD/MM/YYYY, caracteres no ASCII literales) y lo escribe.
func (a *JSONArchive) Save(_ context.Context, payload any, at time.Time) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jsonsafe.Sanitize(payload)); err != nil {
		return "", fmt.Errorf("archivo: serializar payload: %w", err)
	}

	if err := a.fs.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("archivo: crear carpeta %s: %w", a.dir, err)
	}
	path := filepath.Join(a.dir, a.FileName(at))
	if err := afero.WriteFile(a.fs, path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("archivo: escribir %s: %w", path, err)
	}
	return path, nil
}

// Load lee un archivo guardado (usado por `facturador reenviar`).
func (a *JSONArchive) Load(path string) (json.RawMessage, error) {
	b, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("archivo: leer %s: %w", path, err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("archivo: %s no contiene JSON válido", path)
	}
	return b, nil
}

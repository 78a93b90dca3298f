package jsonsafe_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimizar-ia/facturador/pkg/jsonsafe"
)

type fechas struct {
	Inicio  time.Time        `json:"fecha_inicio"`
	Fin     *time.Time       `json:"fecha_fin"`
	Sin     *time.Time       `json:"sin_fecha,omitempty"`
	Importe decimal.Decimal  `json:"importe"`
	Oculto  string           `json:"-"`
	Extra   map[string]any   `json:"extra,omitempty"`
	Lista   []any            `json:"lista"`
	Raw     json.RawMessage  `json:"raw,omitempty"`
	privado int
}

func TestSanitize_ConvierteFechasEnCualquierNivel(t *testing.T) {
	d := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	in := fechas{
		Inicio:  d,
		Fin:     &d,
		Importe: decimal.RequireFromString("242.5"),
		Oculto:  "no",
		Extra: map[string]any{
			"vencimiento": d.AddDate(0, 1, 0),
			"anidado":     []any{d, "texto", 3},
		},
		Lista:   []any{map[string]any{"f": d}},
		Raw:     json.RawMessage(`{"ya":"serializado"}`),
		privado: 1,
	}

	out := jsonsafe.Sanitize(in)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"fecha_inicio": "05/03/2026",
		"fecha_fin": "05/03/2026",
		"importe": "242.5",
		"extra": {"vencimiento": "05/04/2026", "anidado": ["05/03/2026", "texto", 3]},
		"lista": [{"f": "05/03/2026"}],
		"raw": {"ya": "serializado"}
	}`, string(b))
}

func TestSanitize_MapaGenericoConFechaYaTexto(t *testing.T) {
	in := map[string]any{"fecha": "05/03/2026", "n": 1.5, "nil": nil}
	out := jsonsafe.Sanitize(in)
	assert.Equal(t, map[string]any{"fecha": "05/03/2026", "n": 1.5, "nil": nil}, out)
}

func TestSanitize_PunteroAStruct(t *testing.T) {
	d := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	out := jsonsafe.Sanitize(&fechas{Inicio: d})
	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "31/12/2026", m["fecha_inicio"])
	assert.Nil(t, m["fecha_fin"])
	_, tieneOmitido := m["sin_fecha"]
	assert.False(t, tieneOmitido)
}

func TestSanitize_Nil(t *testing.T) {
	assert.Nil(t, jsonsafe.Sanitize(nil))
}

// ──────────────────────────── Structs embebidos y opción string ────────────────────────────

type Auditoria struct {
	Creado time.Time `json:"creado"`
	Autor  string    `json:"autor"`
}

type base struct {
	Codigo string `json:"codigo"`
}

type comprobante struct {
	Auditoria
	base
	*Extra
	Autor    string  `json:"autor"`
	Numero   int64   `json:"numero,string"`
	Exento   bool    `json:"exento,string"`
	Alicuota float64 `json:"alicuota,string"`
	Nota     string  `json:"nota,string"`
	Punto    *int    `json:"punto,string"`
}

type Extra struct {
	Observacion string `json:"observacion"`
}

func TestSanitize_StructEmbebidoSeAplana(t *testing.T) {
	d := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	in := comprobante{
		Auditoria: Auditoria{Creado: d, Autor: "interno"},
		base:      base{Codigo: "001"},
		Autor:     "operador",
	}

	b, err := json.Marshal(jsonsafe.Sanitize(in))
	require.NoError(t, err)
	m := map[string]any{}
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "15/10/2026", m["creado"])
	assert.Equal(t, "001", m["codigo"])
	assert.Equal(t, "operador", m["autor"], "el campo exterior tiene prioridad")
	assert.NotContains(t, m, "Auditoria")
	assert.NotContains(t, m, "Extra")
	assert.NotContains(t, m, "observacion", "puntero embebido nil no aporta campos")

	in.Extra = &Extra{Observacion: "sin cargo"}
	m = jsonsafe.Sanitize(in).(map[string]any)
	assert.Equal(t, "sin cargo", m["observacion"])
}

func TestSanitize_OpcionStringIgualQueEncodingJSON(t *testing.T) {
	punto := 3
	in := comprobante{
		Numero:   42,
		Exento:   true,
		Alicuota: 0.21,
		Nota:     "a",
		Punto:    &punto,
		Extra:    &Extra{},
	}

	want, err := json.Marshal(in)
	require.NoError(t, err)
	got, err := json.Marshal(jsonsafe.Sanitize(in))
	require.NoError(t, err)

	// Salvo las fechas, el resultado coincide con encoding/json.
	var wantMap, gotMap map[string]any
	require.NoError(t, json.Unmarshal(want, &wantMap))
	require.NoError(t, json.Unmarshal(got, &gotMap))
	delete(wantMap, "creado")
	delete(gotMap, "creado")
	assert.Equal(t, wantMap, gotMap)
	assert.Equal(t, "42", gotMap["numero"])
	assert.Equal(t, "true", gotMap["exento"])
	assert.Equal(t, `"a"`, gotMap["nota"])
	assert.Equal(t, "3", gotMap["punto"])

	in.Punto = nil
	m := jsonsafe.Sanitize(in).(map[string]any)
	assert.Nil(t, m["punto"])
}

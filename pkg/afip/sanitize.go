package afip

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrInvalidDecimal se devuelve cuando un texto no vacío no es un número válido.
var ErrInvalidDecimal = errors.New("afip: número inválido")

// Límites de los números del formulario. Fuera de ellos la aritmética decimal deja de ser acotada.
const (
	MaxDecimalPlaces = 10
	MaxExponent      = 15
	MaxDigits        = 30
)

// SanitizeDigits elimina todo carácter que no sea dígito decimal (útil para CUIT/DNI).
func SanitizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDigitsOnly es true si s no está vacío y todos sus caracteres son dígitos.
func IsDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseOptionalDecimal interpreta un número con coma o punto como separador decimal.
// Un texto vacío o con solo espacios devuelve ok=false (ausente, se toma como cero).
// Cualquier otro texto que no sea un número, o que exceda MaxDecimalPlaces, MaxExponent o
// MaxDigits, devuelve ErrInvalidDecimal.
func ParseOptionalDecimal(s string) (d decimal.Decimal, ok bool, err error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return decimal.Zero, false, nil
	}
	t = strings.ReplaceAll(t, ",", ".")
	if strings.IndexFunc(t, unicode.IsSpace) >= 0 {
		return decimal.Zero, false, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	d, err = decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if exp := d.Exponent(); exp < -MaxDecimalPlaces || exp > MaxExponent || d.NumDigits() > MaxDigits {
		return decimal.Zero, false, fmt.Errorf("%w: %q fuera de rango", ErrInvalidDecimal, s)
	}
	return d, true, nil
}

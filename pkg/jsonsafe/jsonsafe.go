// Package jsonsafe normaliza estructuras arbitrarias antes de serializarlas: toda fecha
// (time.Time) en cualquier nivel se convierte a texto DD/MM/YYYY.
package jsonsafe

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// DateLayout formato de fecha del comprobante.
const DateLayout = "02/01/2006"

var (
	timeType      = reflect.TypeOf(time.Time{})
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textType      = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	rawType       = reflect.TypeOf(json.RawMessage(nil))
)

// Sanitize devuelve una copia de v lista para encoding/json en la que toda fecha quedó como
// "DD/MM/YYYY". Structs se convierten a map[string]any respetando los tags json (nombre,
// omitempty, string y structs embebidos); los valores que implementan json.Marshaler (por
// ejemplo decimal.Decimal) se conservan tal cual.
func Sanitize(v any) any {
	if v == nil {
		return nil
	}
	return sanitize(reflect.ValueOf(v))
}

func sanitize(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time).Format(DateLayout)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Pointer && v.Elem().Type() == timeType {
			return v.Elem().Interface().(time.Time).Format(DateLayout)
		}
		if v.Kind() == reflect.Pointer && isMarshaler(v.Type()) {
			return v.Interface()
		}
		return sanitize(v.Elem())
	}

	// JSON ya serializado o tipos con serialización propia (decimal.Decimal) se conservan.
	if v.Type() == rawType || isMarshaler(v.Type()) {
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.Struct:
		return sanitizeStruct(v)
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = sanitize(iter.Value())
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = sanitize(v.Index(i))
		}
		return out
	}
	return v.Interface()
}

// sanitizeStruct sigue las reglas de encoding/json: los structs embebidos sin nombre en el tag
// aportan sus campos al nivel exterior; ante un nombre repetido gana el campo exterior.
func sanitizeStruct(v reflect.Value) map[string]any {
	t := v.Type()
	out := make(map[string]any, t.NumField())
	var embedded []map[string]any
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, omitEmpty, quoted, skip := parseTag(f)
		if skip {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && !hasTagName(f) {
			if inner, ok := embeddedStruct(f, fv); ok {
				if inner.IsValid() {
					embedded = append(embedded, sanitizeStruct(inner))
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		if quoted {
			if s, ok := quote(fv); ok {
				out[name] = s
				continue
			}
		}
		out[name] = sanitize(fv)
	}
	for _, m := range embedded {
		for k, val := range m {
			if _, ok := out[k]; !ok {
				out[k] = val
			}
		}
	}
	return out
}

// embeddedStruct devuelve el struct a aplanar. Un puntero nil no aporta campos y un puntero a
// un tipo no exportado se ignora, igual que en encoding/json.
func embeddedStruct(f reflect.StructField, fv reflect.Value) (reflect.Value, bool) {
	ft := f.Type
	if ft.Kind() == reflect.Pointer {
		if !f.IsExported() || ft.Elem().Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		if fv.IsNil() {
			return reflect.Value{}, true
		}
		fv = fv.Elem()
		ft = ft.Elem()
	}
	if ft.Kind() != reflect.Struct || ft == timeType || isMarshaler(ft) {
		return reflect.Value{}, false
	}
	return fv, true
}

// quote aplica la opción ",string": escalares (o punteros no nil a escalares) se emiten como
// texto con su representación JSON.
func quote(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if isMarshaler(v.Type()) {
		return "", false
	}
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return "", false
}

// isEmptyValue replica el criterio de omitempty de encoding/json.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}

func parseTag(f reflect.StructField) (name string, omitEmpty, quoted, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, false, true
	}
	name = f.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			omitEmpty = true
		case "string":
			quoted = true
		}
	}
	return name, omitEmpty, quoted, false
}

func hasTagName(f reflect.StructField) bool {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name != ""
}

func isMarshaler(t reflect.Type) bool {
	return t.Implements(marshalerType) || t.Implements(textType)
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.Type() == timeType {
		return k.Interface().(time.Time).Format(DateLayout)
	}
	if b, err := json.Marshal(k.Interface()); err == nil {
		return strings.Trim(string(b), `"`)
	}
	return ""
}

// Package optional modela campos de actualización parcial (PATCH) distinguiendo
// "ausente", "null explícito" y "valor".
package optional

import (
	"bytes"
	"encoding/json"
)

// Field es un campo opcional de un payload JSON.
//
//	{}                  -> Present=false
//	{"campo": null}     -> Present=true, Null=true
//	{"campo": <valor>}  -> Present=true, Null=false, Value=<valor>
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Of construye un campo presente con valor.
func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null construye un campo presente con null explícito.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// UnmarshalJSON solo se invoca cuando la clave existe en el JSON.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON serializa null cuando el campo es nulo o ausente.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// HasValue indica si el campo trae un valor no nulo.
func (f Field[T]) HasValue() bool {
	return f.Present && !f.Null
}

// Ptr devuelve un puntero al valor, o nil si el campo es nulo o ausente.
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}
	v := f.Value
	return &v
}

// ApplyTo copia el valor sobre dst si el campo está presente con valor. Devuelve si hubo cambio.
func (f Field[T]) ApplyTo(dst *T) bool {
	if !f.HasValue() {
		return false
	}
	*dst = f.Value
	return true
}

// ApplyToPtr copia el valor (o nil si es null explícito) sobre dst si el campo está presente.
func (f Field[T]) ApplyToPtr(dst **T) bool {
	if !f.Present {
		return false
	}
	*dst = f.Ptr()
	return true
}

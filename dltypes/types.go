// Package dltypes is the type registry and value encoder: it maps a
// column's declared storage kind to the type name used in a schema
// statement, and serializes leaf values to their literal textual form.
//
// The source this library is modeled on resolves a column's storage type
// by introspecting Python type hints at runtime. A static-typed
// implementation cannot do that safely, so each relation field carries an
// explicit Kind tag (see relation.Field) instead of being inferred — the
// lookup itself is still a sealed, compile-time table, matching the
// source's TYPE_MAP resolution order (bool checked before int).
package dltypes

import "fmt"

// Kind is a sealed storage-type tag.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindTimestamp
	KindVector
	KindVectorDim
	KindVectorInt8
	KindVectorInt8Dim
)

// TypeName renders a Kind (plus its dimension, for dimensioned vector
// kinds) to the storage-type name used in schema statements.
func TypeName(k Kind, dim int) (string, error) {
	switch k {
	case KindInt:
		return "int", nil
	case KindFloat:
		return "float", nil
	case KindString:
		return "string", nil
	case KindBool:
		return "bool", nil
	case KindTimestamp:
		return "timestamp", nil
	case KindVector:
		return "vector", nil
	case KindVectorDim:
		return fmt.Sprintf("vector[%d]", dim), nil
	case KindVectorInt8:
		return "vector_int8", nil
	case KindVectorInt8Dim:
		return fmt.Sprintf("vector_int8[%d]", dim), nil
	default:
		return "", &UnsupportedTypeError{Kind: k}
	}
}

// UnsupportedTypeError is raised when a column's Kind has no storage-type
// mapping.
type UnsupportedTypeError struct {
	Kind Kind
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: kind %d has no storage-type mapping", e.Kind)
}

// UnsupportedValueError is raised when the value encoder is given a value
// it has no encoding for.
type UnsupportedValueError struct {
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value for encoding: %#v", e.Value)
}

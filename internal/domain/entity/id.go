package entity

import (
	"fmt"
	"strings"
)

// ID identificador opaco asociado a un tipo de entidad T (ID[Item] no es comparable con ID[Otro]).
// Es inmutable y se compara por valor.
type ID[T any] struct {
	value string
}

// NewID construye un ID validando que no esté vacío.
func NewID[T any](value string) (ID[T], error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return ID[T]{}, fmt.Errorf("id vacío")
	}
	return ID[T]{value: v}, nil
}

// MustID igual que NewID pero entra en pánico si el valor es inválido (fixtures y constantes).
func MustID[T any](value string) ID[T] {
	id, err := NewID[T](value)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID[T]) String() string { return id.value }

// IsZero indica si el ID no fue inicializado.
func (id ID[T]) IsZero() bool { return id.value == "" }

func (id ID[T]) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *ID[T]) UnmarshalText(b []byte) error {
	parsed, err := NewID[T](string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

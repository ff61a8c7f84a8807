package domain

import (
	"errors"
	"fmt"
)

// LoadingErrorKind etiqueta de StockListLoadingError.
type LoadingErrorKind string

const (
	LoadingErrorIO                       LoadingErrorKind = "IO_ERROR"
	LoadingErrorNotEnoughFields          LoadingErrorKind = "NOT_ENOUGH_FIELDS"
	LoadingErrorBlankID                  LoadingErrorKind = "BLANK_ID"
	LoadingErrorBlankName                LoadingErrorKind = "BLANK_NAME"
	LoadingErrorCouldntParseLastModified LoadingErrorKind = "COULDNT_PARSE_LAST_MODIFIED"
	LoadingErrorCouldntParseSellBy       LoadingErrorKind = "COULDNT_PARSE_SELL_BY"
	LoadingErrorCouldntParseQuality      LoadingErrorKind = "COULDNT_PARSE_QUALITY"
)

// StockListLoadingError fallo terminal al cargar la lista de stock completa.
// Se devuelve como valor de error; es distinto de un fallo de precio por item.
type StockListLoadingError struct {
	Kind    LoadingErrorKind
	Line    string // línea del origen semilla que causó el error, si aplica
	Message string
	Cause   error
}

// IOError construye un error de E/S envolviendo la causa.
func IOError(message string, cause error) *StockListLoadingError {
	return &StockListLoadingError{Kind: LoadingErrorIO, Message: message, Cause: cause}
}

// ParseError construye un error de formato asociado a una línea.
func ParseError(kind LoadingErrorKind, line string) *StockListLoadingError {
	return &StockListLoadingError{Kind: kind, Line: line, Message: "línea inválida"}
}

func (e *StockListLoadingError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Line != "" {
		msg += fmt.Sprintf(" [%s]", e.Line)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StockListLoadingError) Unwrap() error { return e.Cause }

// Is hace que errors.Is(err, ErrStockUnavailable) sea verdadero para cualquier fallo de carga.
func (e *StockListLoadingError) Is(target error) bool {
	return target == ErrStockUnavailable
}

// AsLoadingError extrae el StockListLoadingError de la cadena de errores, si existe.
func AsLoadingError(err error) (*StockListLoadingError, bool) {
	var le *StockListLoadingError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// TxObserver registra el ciclo de vida de las transacciones de la fuente durable.
// Begin y commit van a debug; rollback a warn con la causa.
type TxObserver struct {
	zl zerolog.Logger
}

// NewTxObserver construye el observador sobre l.
func NewTxObserver(l *Logger) *TxObserver {
	return &TxObserver{zl: l.Component("tx")}
}

func (o *TxObserver) TxBegin(context.Context) {
	o.zl.Debug().Msg("begin")
}

func (o *TxObserver) TxCommit(context.Context) {
	o.zl.Debug().Msg("commit")
}

func (o *TxObserver) TxRollback(_ context.Context, cause error) {
	o.zl.Warn().Err(cause).Msg("rollback")
}

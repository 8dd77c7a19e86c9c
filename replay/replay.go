package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/rustyeddy/txengine/engine"
)

// Stats summarises a run.
type Stats struct {
	Records  int
	Applied  int
	Rejected int
}

// File replays the CSV log at path into eng.
func File(ctx context.Context, path string, eng *engine.Engine, logger *zap.Logger) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	return Run(ctx, NewReader(f), eng, logger)
}

// Run drains src into eng in order.
//
// Rejected operations (insufficient funds, unknown or undisputed
// transactions, locked accounts and so on) leave state unchanged and are
// only logged at debug level. A malformed record or an unknown operation
// type stops the run and the error is returned; the caller must not report
// partial state in that case.
func Run(ctx context.Context, src *Reader, eng *engine.Engine, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var st Stats
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		op, err := src.Next()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		if err != nil {
			return st, fmt.Errorf("record %d: %w", st.Records+1, err)
		}
		st.Records++

		logger.Debug("applying operation",
			zap.String("type", op.Kind.String()),
			zap.Uint16("client", op.Client),
			zap.Uint32("tx", op.Tx),
		)

		err = eng.Apply(op)
		switch {
		case err == nil:
			st.Applied++
		case engine.IsRejection(err):
			st.Rejected++
			logger.Debug("operation ignored",
				zap.String("type", op.Kind.String()),
				zap.Uint16("client", op.Client),
				zap.Uint32("tx", op.Tx),
				zap.Error(err),
			)
		default:
			return st, fmt.Errorf("record %d: %w", st.Records, err)
		}
	}
}

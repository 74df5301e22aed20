package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/table"
	"github.com/sells-group/mlprep-cli/pkg/zipsearch"
)

// failureColumns prefix the lookup-failure log; the originating row's own
// columns follow them.
var failureColumns = []string{"postal_code", "city", "state", "error"}

// Lookup wraps the zip search service with query normalization and
// recoverable failure handling: a query the service rejects is written to
// the failure log exactly once and yields an empty result instead of an
// error.
type Lookup struct {
	svc        zipsearch.Service
	failures   table.Appender
	rowColumns []string
}

// NewLookup creates a Lookup. rowColumns names the originating table's
// columns, used to head the failure log.
func NewLookup(svc zipsearch.Service, failures table.Appender, rowColumns []string) *Lookup {
	return &Lookup{svc: svc, failures: failures, rowColumns: rowColumns}
}

// Lookup resolves a query in the given mode, capped at limit records when
// limit > 0 under ByCityState. An unresolvable query returns an empty
// slice after logging; only infrastructure failures (the log itself being
// unwritable) propagate.
func (l *Lookup) Lookup(ctx context.Context, q AddressQuery, mode Mode, limit int) ([]zipsearch.Record, error) {
	q = q.Normalized()

	var (
		records []zipsearch.Record
		err     error
	)
	switch mode {
	case ByCityState:
		records, err = l.svc.ByCityAndState(ctx, q.City, q.State, limit)
	case ByZipcode:
		var rec *zipsearch.Record
		rec, err = l.svc.ByZipcode(ctx, q.Zip)
		if rec != nil {
			records = []zipsearch.Record{*rec}
		}
	default:
		return nil, eris.Errorf("enrich: unknown lookup mode %q", mode)
	}

	if err != nil {
		zap.L().Debug("enrich: lookup failed",
			zap.String("city", q.City),
			zap.String("state", q.State),
			zap.String("zip", q.Zip),
			zap.Error(err),
		)
		if logErr := l.logFailure(q, err); logErr != nil {
			return nil, logErr
		}
		return nil, nil
	}
	return records, nil
}

func (l *Lookup) logFailure(q AddressQuery, cause error) error {
	header := append(append([]string(nil), failureColumns...), l.rowColumns...)
	row := append([]string{q.Zip, q.City, q.State, cause.Error()}, q.Row...)
	return eris.Wrap(l.failures.Append(header, row), "enrich: log lookup failure")
}

package enrich

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/mlprep-cli/internal/table"
)

// DriverOptions binds a driver to the input table's address columns.
type DriverOptions struct {
	CityColumn  string
	StateColumn string
	ZipColumn   string
	ResultLimit int
}

// Driver partitions an input table into contiguous shards and runs a
// Builder over each shard on its own worker. All output is the side
// effect of the builder's file writes; nothing flows back to the caller.
type Driver struct {
	builder *Builder
	opts    DriverOptions
}

// NewDriver creates a Driver. Column names default to City/State/Zip.
func NewDriver(builder *Builder, opts DriverOptions) *Driver {
	if opts.CityColumn == "" {
		opts.CityColumn = "City"
	}
	if opts.StateColumn == "" {
		opts.StateColumn = "State"
	}
	if opts.ZipColumn == "" {
		opts.ZipColumn = "Zip"
	}
	return &Driver{builder: builder, opts: opts}
}

// Shard splits a table into n contiguous partitions of near-equal size:
// the first rows%n shards take one extra row, order is preserved within
// and across shards.
func Shard(t *table.Table, n int) []*table.Table {
	if n < 1 {
		n = 1
	}
	base := len(t.Rows) / n
	extra := len(t.Rows) % n

	shards := make([]*table.Table, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		shard := table.New(t.Columns)
		shard.Rows = t.Rows[start : start+size]
		shards = append(shards, shard)
		start += size
	}
	return shards
}

// Run enriches every row of the table across shardCount workers. Rows are
// processed sequentially, in order, within each shard. Per-row lookup and
// mapping failures land in the failure logs and do not stop the run; a
// pool-level failure is logged together with a dump of the shard inputs
// for manual replay, and terminates the run without retry.
func (d *Driver) Run(ctx context.Context, t *table.Table, shardCount int, mode Mode) error {
	cityIdx, err := t.ColumnIndex(d.opts.CityColumn)
	if err != nil {
		return err
	}
	stateIdx, err := t.ColumnIndex(d.opts.StateColumn)
	if err != nil {
		return err
	}
	zipIdx, err := t.ColumnIndex(d.opts.ZipColumn)
	if err != nil {
		return err
	}

	shards := Shard(t, shardCount)
	zap.L().Info("enrich: starting worker pool",
		zap.Int("rows", t.NumRows()),
		zap.Int("shards", len(shards)),
		zap.String("mode", string(mode)),
	)

	g, gCtx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			for _, row := range shard.Rows {
				q := AddressQuery{
					City:  row[cityIdx],
					State: row[stateIdx],
					Zip:   row[zipIdx],
					Row:   row,
				}
				if _, err := d.builder.Build(gCtx, q, mode, d.opts.ResultLimit); err != nil {
					return eris.Wrapf(err, "enrich: shard %d", i)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		d.dumpShards(shards, mode, err)
		return eris.Wrap(err, "enrich: worker dispatch failed")
	}

	zap.L().Info("enrich: worker pool completed", zap.Int("rows", t.NumRows()))
	return nil
}

// dumpShards logs every shard's inputs so a failed run can be replayed by
// hand. Pool-level failures are rare and never retried automatically.
func (d *Driver) dumpShards(shards []*table.Table, mode Mode, cause error) {
	zap.L().Error("enrich: dumping shard inputs after pool failure",
		zap.Error(cause),
		zap.String("mode", string(mode)),
		zap.Int("shards", len(shards)),
	)
	for i, shard := range shards {
		rows := make([]string, len(shard.Rows))
		for j, row := range shard.Rows {
			rows[j] = strings.Join(row, ",")
		}
		zap.L().Error("enrich: shard dump",
			zap.Int("shard", i),
			zap.Strings("rows", rows),
		)
	}
}

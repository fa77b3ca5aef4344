// Package tier - Parallel assignment
package tier

import (
	"context"

	"golang.org/x/sync/errgroup"

	"price-tiers/core/types"
)

// minChunk keeps goroutines from being spawned for a handful of records
const minChunk = 1024

// AssignAll bins every record, splitting the work across up to workers
// goroutines. The result is aligned with records.
func (t *Table) AssignAll(ctx context.Context, records []types.Record, workers int) ([]types.Tier, error) {
	out := make([]types.Tier, len(records))
	if workers < 1 {
		workers = 1
	}

	chunk := (len(records) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%minChunk == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = t.Assign(records[i].UnitPrice)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

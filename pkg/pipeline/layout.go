package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	"github.com/matzehuels/seqdiagram/pkg/observability"
)

// Layout validates in and lays out the diagram, reporting to the pipeline
// hooks. It never touches the cache; see [Runner.LayoutWithCacheInfo].
func Layout(ctx context.Context, in diagram.Input) (*diagram.Diagram, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(in.Devices), in.MaxStep+1)

	start := time.Now()
	d, err := diagram.Render(in)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	return d, err
}

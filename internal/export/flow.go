// internal/export/flow.go
//
// Export Coordinator: the end-to-end document pipeline.
//
// Context
//   Export runs lookup → normalize → layout → rasterize → package for one
//   record and returns the finished PDF.  Concurrent exports of the same
//   record and variant are coalesced through singleflight: the second
//   trigger waits on the first instead of rendering twice, which is the
//   server-side equivalent of disabling the button while rendering.
//
// Workflow
//   •  Per-record state is tracked for UI reporting.  A pipeline failure
//      leaves the record in Failed until the next trigger; a lookup
//      failure returns it to Idle.
//   •  Every export runs under a bounded timeout so a stuck image fetch
//      cannot pin the flow in Rendering forever.
//   •  Durations and failures feed the Prometheus collectors in
//      internal/metrics.
//
//------------------------------------------------------------------------------

package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/document"
	"github.com/ica-so/etas-portal/internal/metrics"
	"github.com/ica-so/etas-portal/internal/pdfgen"
	"github.com/ica-so/etas-portal/internal/raster"
)

// Lookup abstracts the record fetch so tests can run without a database.
type Lookup interface {
	ByID(ctx context.Context, id string) (*applicant.Record, error)
}

// Coordinator drives the pipeline for the document component.
type Coordinator struct {
	lookup  Lookup
	raster  *raster.Rasterizer
	opts    document.Options
	timeout time.Duration

	group  singleflight.Group
	states *stateTable
	Blobs  *BlobStore
}

// New wires a Coordinator.  timeout bounds one complete export; zero means
// a 30-second default.
func New(lookup Lookup, r *raster.Rasterizer, opts document.Options, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Coordinator{
		lookup:  lookup,
		raster:  r,
		opts:    opts,
		timeout: timeout,
		states:  newStateTable(),
		Blobs:   NewBlobStore(DefaultBlobTTL),
	}
}

// State reports the current flow state for a record.
func (c *Coordinator) State(recordID string) State { return c.states.get(recordID) }

// Fetch loads and normalizes a record without rendering, for the preview
// page.  It drives the Idle → Fetching → Ready transitions.
func (c *Coordinator) Fetch(ctx context.Context, recordID string) (*document.DisplayModel, error) {
	c.states.set(recordID, StateFetching)

	rec, err := c.lookup.ByID(ctx, recordID)
	if err != nil {
		c.states.set(recordID, StateIdle)
		if errors.Is(err, applicant.ErrNotFound) {
			return nil, &document.LookupError{Key: recordID}
		}
		return nil, fmt.Errorf("export fetch: %w", err)
	}

	c.states.set(recordID, StateReady)
	return document.Normalize(rec), nil
}

// Export runs the full pipeline for recordID.  protect selects the
// encrypted variant.  Identical concurrent requests share one execution.
func (c *Coordinator) Export(ctx context.Context, recordID string, protect bool) (*pdfgen.Result, error) {
	key := fmt.Sprintf("%s|%v", recordID, protect)
	v, err, shared := c.group.Do(key, func() (any, error) {
		// Detached from the triggering request: if the first caller
		// disconnects mid-render, coalesced waiters must still get the
		// result.  run applies the export timeout as the only bound.
		return c.run(context.WithoutCancel(ctx), recordID, protect)
	})
	if shared {
		zap.S().Debugw("export coalesced", "record", recordID)
	}
	if err != nil {
		return nil, err
	}
	return v.(*pdfgen.Result), nil
}

func (c *Coordinator) run(ctx context.Context, recordID string, protect bool) (*pdfgen.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	model, err := c.Fetch(ctx, recordID)
	if err != nil {
		// Fetch already parked the record back at Idle.
		metrics.RenderErrors.Inc()
		return nil, err
	}

	c.states.set(recordID, StateRendering)
	res, err := c.render(ctx, model, protect)
	if err != nil {
		metrics.RenderErrors.Inc()
		zap.S().Errorw("document export failed",
			"record", recordID, "err", err)
		// Failed stays visible until the next trigger re-enters Fetching.
		c.states.set(recordID, StateFailed)
		return nil, err
	}

	c.states.set(recordID, StateSucceeded)
	metrics.DocumentsRendered.Inc()
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	zap.S().Infow("document exported",
		"record", recordID,
		"etas", model.EtasNumber,
		"protected", protect,
		"bytes", len(res.Bytes),
		"dur", time.Since(start))
	return res, nil
}

// render executes layout, raster, and packaging for an already normalized
// model.
func (c *Coordinator) render(ctx context.Context, m *document.DisplayModel, protect bool) (*pdfgen.Result, error) {
	layout, err := document.BuildLayout(m, c.opts)
	if err != nil {
		return nil, err
	}
	img, err := c.raster.Capture(ctx, layout)
	if err != nil {
		return nil, err
	}
	return pdfgen.Package(img, m.PassportNumber, protect)
}

// ExportTransient runs the protected export and parks the result in the
// blob registry, returning the one-time token the browser opens.
func (c *Coordinator) ExportTransient(ctx context.Context, recordID string) (string, error) {
	res, err := c.Export(ctx, recordID, true)
	if err != nil {
		return "", err
	}
	return c.Blobs.Put(res), nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
	"github.com/offerta-labs/citemark/internal/logger"
)

// Ensure AcquisitionService implements the interface.
var _ driving.Acquisition = (*AcquisitionService)(nil)

// Readiness gate defaults. The gate declares a layer usable when the
// builder marks it ready, or when its content length and node count
// stop changing across consecutive polls. After the timeout, matching
// proceeds against whatever rendered, flagged as degraded.
const (
	DefaultGateTimeout  = 2500 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
	stablePolls         = 3
)

// AcquisitionService fetches a document, builds its text layer and
// runs the readiness gate.
type AcquisitionService struct {
	fetcher  driven.Fetcher
	registry driven.LayerRegistry

	// GateTimeout and PollInterval override the gate defaults when
	// positive. Exposed for configuration.
	GateTimeout  time.Duration
	PollInterval time.Duration
}

// NewAcquisitionService creates a new acquisition service.
func NewAcquisitionService(fetcher driven.Fetcher, registry driven.LayerRegistry) *AcquisitionService {
	return &AcquisitionService{
		fetcher:  fetcher,
		registry: registry,
	}
}

// Acquire resolves the record to a ready (or degraded) text layer.
func (s *AcquisitionService) Acquire(ctx context.Context, rec domain.FileRecord) (*driving.AcquireResult, error) {
	logger.Section("Text Acquisition")
	logger.Debug("File: %s (%s)", rec.Name, rec.Type)

	content, err := s.fetcher.Fetch(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rec.Name, err)
	}
	logger.Debug("Fetched %d bytes", len(content))

	builder, err := s.registry.BuilderFor(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("select builder for %s: %w", rec.Type, err)
	}

	layer, err := builder.Build(ctx, rec, content)
	if err != nil {
		return nil, fmt.Errorf("build layer for %s: %w", rec.Name, err)
	}

	degraded, err := s.waitReady(ctx, layer)
	if err != nil {
		return nil, err
	}
	if degraded {
		// Partial text is workable; no text at all is not.
		if layer.NodeCount() == 0 {
			return nil, fmt.Errorf("layer for %s: %w", rec.Name, domain.ErrLayerNotReady)
		}
		logger.Warn("layer for %s not fully rendered after %s, matching on partial text", rec.Name, s.gateTimeout())
	}

	logger.Info("Layer ready: %d nodes, %d bytes of text", layer.NodeCount(), len(layer.Text()))
	return &driving.AcquireResult{Layer: layer, Degraded: degraded}, nil
}

// waitReady polls the layer until it is ready or stable, up to the gate
// timeout. Returns degraded=true on timeout.
func (s *AcquisitionService) waitReady(ctx context.Context, layer driven.TextLayer) (bool, error) {
	deadline := time.NewTimer(s.gateTimeout())
	defer deadline.Stop()
	tick := time.NewTicker(s.pollInterval())
	defer tick.Stop()

	lastLen, lastNodes, stable := -1, -1, 0
	for {
		if layer.Ready() {
			return false, nil
		}

		// Stability counts as readiness: some builders cannot signal
		// completion but their output stops growing.
		curLen, curNodes := len(layer.Text()), layer.NodeCount()
		if curNodes > 0 && curLen == lastLen && curNodes == lastNodes {
			stable++
			if stable >= stablePolls {
				return false, nil
			}
		} else {
			stable = 0
		}
		lastLen, lastNodes = curLen, curNodes

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return true, nil
		case <-tick.C:
		}
	}
}

func (s *AcquisitionService) gateTimeout() time.Duration {
	if s.GateTimeout > 0 {
		return s.GateTimeout
	}
	return DefaultGateTimeout
}

func (s *AcquisitionService) pollInterval() time.Duration {
	if s.PollInterval > 0 {
		return s.PollInterval
	}
	return DefaultPollInterval
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/repository"
)

// SummaryCache keeps the portfolio summary of one calendar day.
//
// The summary is held in memory and mirrored to the summary_snapshot table
// so that a restart on the same day can serve it without recomputing.
// A summary for any other day is treated as a miss.
//
// Every invalidation bumps a generation counter. A summary is only stored if
// no invalidation happened since its computation started, so a computation
// that raced a write cannot put its outdated result back.
type SummaryCache struct {
	mu         sync.Mutex
	day        string
	summary    *model.PortfolioSummary
	generation uint64

	snapshots *repository.SnapshotRepository
	log       zerolog.Logger
}

// NewSummaryCache creates a SummaryCache backed by the given snapshot repository.
func NewSummaryCache(snapshots *repository.SnapshotRepository, log zerolog.Logger) *SummaryCache {
	return &SummaryCache{
		snapshots: snapshots,
		log:       log.With().Str("component", "summary_cache").Logger(),
	}
}

// Get returns the cached summary for day, loading the stored snapshot on a
// memory miss. An unreadable snapshot is logged and reported as a miss.
func (c *SummaryCache) Get(ctx context.Context, day string) (*model.PortfolioSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.summary != nil && c.day == day {
		return c.summary, true
	}

	payload, err := c.snapshots.GetSnapshot(ctx, day)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSnapshotNotFound) {
			c.log.Error().Err(err).Str("day", day).Msg("Failed to load summary snapshot")
		}
		return nil, false
	}

	summary, err := decodeSummary(payload)
	if err != nil {
		c.log.Warn().Err(err).Str("day", day).Msg("Discarding unreadable summary snapshot")
		return nil, false
	}

	c.day, c.summary = day, summary
	return summary, true
}

// Generation returns the current invalidation count. Callers read it before
// computing a summary and hand it back to Put.
func (c *SummaryCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Put stores summary under its own Day, replacing whatever was cached, when
// generation is still current. It reports whether the summary was stored.
func (c *SummaryCache) Put(ctx context.Context, summary *model.PortfolioSummary, generation uint64) (bool, error) {
	payload, err := encodeSummary(summary)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.log.Debug().
			Uint64("generation", generation).
			Uint64("current", c.generation).
			Msg("Discarding summary computed before the last invalidation")
		return false, nil
	}

	if err := c.snapshots.PutSnapshot(ctx, summary.Day, payload); err != nil {
		return false, err
	}
	c.day, c.summary = summary.Day, summary
	return true, nil
}

// Invalidate drops the cached summary from memory and storage and starts a
// new generation.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.day, c.summary = "", nil
	return c.snapshots.DeleteSnapshots(ctx)
}

func encodeSummary(summary *model.PortfolioSummary) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(summary); err != nil {
		return nil, fmt.Errorf("failed to encode summary snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSummary(payload []byte) (*model.PortfolioSummary, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")

	var summary model.PortfolioSummary
	if err := dec.Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary snapshot: %w", err)
	}
	normalizeSummary(&summary)
	return &summary, nil
}

// normalizeSummary replaces nil slices with empty ones so the JSON form is
// the same whether the summary was computed or decoded.
func normalizeSummary(s *model.PortfolioSummary) {
	if s.Holdings == nil {
		s.Holdings = []model.InstrumentPerformance{}
	}
	if s.Closed == nil {
		s.Closed = []model.ClosedPerformance{}
	}
	if s.UnpricedCodes == nil {
		s.UnpricedCodes = []string{}
	}
	if s.Anomalies == nil {
		s.Anomalies = []model.DataAnomaly{}
	}
}

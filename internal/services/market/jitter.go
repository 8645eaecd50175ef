package market

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/models"
)

// Simulator applies small random price movements between polls so the feed
// looks live on slow upstream intervals. Disabled unless explicitly started;
// real poll data always replaces simulated values at the next Refresh.
type Simulator struct {
	service  *Service
	logger   *common.Logger
	interval time.Duration
	maxDelta float64 // fraction of price, e.g. 0.01 for ±1%

	mu      sync.Mutex
	cancel  context.CancelFunc
	rng     *rand.Rand
	running bool
}

// NewSimulator creates a jitter simulator over the given service.
func NewSimulator(service *Service, logger *common.Logger, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Simulator{
		service:  service,
		logger:   logger,
		interval: interval,
		maxDelta: 0.01,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the tick loop. Calling Start on a running simulator is a
// no-op.
func (j *Simulator) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.running = true

	go j.loop(ctx)
	j.logger.Info().Dur("interval", j.interval).Msg("price jitter simulator started")
}

// Stop halts the tick loop.
func (j *Simulator) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	j.cancel()
	j.running = false
}

func (j *Simulator) loop(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.tick()
		}
	}
}

// tick nudges every record's price by a uniform random fraction within
// ±maxDelta, rebuilding the snapshot rather than mutating shared records.
func (j *Simulator) tick() {
	s := j.service

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return
	}

	records := make([]models.PriceRecord, len(s.snapshot.Records))
	copy(records, s.snapshot.Records)

	j.mu.Lock()
	for i := range records {
		delta := (j.rng.Float64()*2 - 1) * j.maxDelta
		old := records[i].Price
		records[i].Price = old * (1 + delta)
		records[i].Change += records[i].Price - old
		if old != 0 {
			records[i].ChangePercent += delta * 100
		}
	}
	j.mu.Unlock()

	s.snapshot = &models.FeedSnapshot{
		Records:    records,
		FetchedAt:  s.snapshot.FetchedAt,
		Fallback:   s.snapshot.Fallback,
		Generation: s.snapshot.Generation,
	}
}

package routing

import (
	"sync"
	"sync/atomic"
	"time"

	"atomic-explorer/aihub/pkg/providers"
)

// Request results recorded in statistics, metrics and spans.
const (
	ResultSuccess     = "success"
	ResultExhausted   = "exhausted"
	ResultCanceled    = "canceled"
	ResultConfigError = "config_error"
)

// Stats tracks failover statistics with atomic counters. It is shared by every
// executor built from one gateway and is safe for concurrent use.
type Stats struct {
	totalRequests atomic.Int64
	succeeded     atomic.Int64
	exhausted     atomic.Int64
	canceled      atomic.Int64
	configErrors  atomic.Int64
	totalAttempts atomic.Int64

	// perProvider maps provider ID to *providerCounters
	perProvider sync.Map

	mu            sync.RWMutex
	lastResetTime time.Time
}

type providerCounters struct {
	attempts      atomic.Int64
	successes     atomic.Int64
	rejected      atomic.Int64
	unreachable   atomic.Int64
	emptyResponse atomic.Int64
}

// ProviderStats is a snapshot of one provider's attempt counters.
type ProviderStats struct {
	Attempts      int64 `json:"attempts"`
	Successes     int64 `json:"successes"`
	Rejected      int64 `json:"rejected"`
	Unreachable   int64 `json:"unreachable"`
	EmptyResponse int64 `json:"empty_response"`
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	TotalRequests int64                    `json:"total_requests"`
	Succeeded     int64                    `json:"succeeded"`
	Exhausted     int64                    `json:"exhausted"`
	Canceled      int64                    `json:"canceled"`
	ConfigErrors  int64                    `json:"config_errors"`
	TotalAttempts int64                    `json:"total_attempts"`
	Providers     map[string]ProviderStats `json:"providers"`
	LastResetTime time.Time                `json:"last_reset_time"`
}

// NewStats creates an empty statistics tracker.
func NewStats() *Stats {
	return &Stats{lastResetTime: time.Now()}
}

// RecordAttempt counts one attempt against provider.
func (s *Stats) RecordAttempt(provider string, kind providers.OutcomeKind) {
	s.totalAttempts.Add(1)

	val, _ := s.perProvider.LoadOrStore(provider, &providerCounters{})
	counters := val.(*providerCounters)
	counters.attempts.Add(1)

	switch kind {
	case providers.OutcomeSuccess:
		counters.successes.Add(1)
	case providers.OutcomeRejected:
		counters.rejected.Add(1)
	case providers.OutcomeUnreachable:
		counters.unreachable.Add(1)
	case providers.OutcomeEmptyResponse:
		counters.emptyResponse.Add(1)
	}
}

// RecordResult counts one finished logical request.
func (s *Stats) RecordResult(result string) {
	s.totalRequests.Add(1)

	switch result {
	case ResultSuccess:
		s.succeeded.Add(1)
	case ResultExhausted:
		s.exhausted.Add(1)
	case ResultCanceled:
		s.canceled.Add(1)
	case ResultConfigError:
		s.configErrors.Add(1)
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perProvider := make(map[string]ProviderStats)
	s.perProvider.Range(func(key, value any) bool {
		c := value.(*providerCounters)
		perProvider[key.(string)] = ProviderStats{
			Attempts:      c.attempts.Load(),
			Successes:     c.successes.Load(),
			Rejected:      c.rejected.Load(),
			Unreachable:   c.unreachable.Load(),
			EmptyResponse: c.emptyResponse.Load(),
		}
		return true
	})

	return StatsSnapshot{
		TotalRequests: s.totalRequests.Load(),
		Succeeded:     s.succeeded.Load(),
		Exhausted:     s.exhausted.Load(),
		Canceled:      s.canceled.Load(),
		ConfigErrors:  s.configErrors.Load(),
		TotalAttempts: s.totalAttempts.Load(),
		Providers:     perProvider,
		LastResetTime: s.lastResetTime,
	}
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	s.totalRequests.Store(0)
	s.succeeded.Store(0)
	s.exhausted.Store(0)
	s.canceled.Store(0)
	s.configErrors.Store(0)
	s.totalAttempts.Store(0)

	s.perProvider.Range(func(key, _ any) bool {
		s.perProvider.Delete(key)
		return true
	})

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}

package peer

import (
	"sync"
	"time"

	"github.com/embercoin/emberd/util/mstime"
)

// SyncStatistics counts the hashes and blocks a peer supplied during the
// current synchronization phase. It is reset whenever the peer enters a new
// retrieval phase.
type SyncStatistics struct {
	mtx            sync.RWMutex
	updatedAt      time.Time
	hashesCount    uint64
	blocksCount    uint64
	emptyResponses int
}

// NewSyncStatistics returns new zeroed sync statistics.
func NewSyncStatistics() *SyncStatistics {
	stats := &SyncStatistics{}
	stats.Reset()
	return stats
}

// Reset zeroes the statistics and restarts the phase clock.
func (s *SyncStatistics) Reset() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.updatedAt = mstime.Now()
	s.hashesCount = 0
	s.blocksCount = 0
	s.emptyResponses = 0
}

// AddHashes registers count hashes processed during the current phase.
func (s *SyncStatistics) AddHashes(count uint64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.updatedAt = mstime.Now()
	s.hashesCount += count
}

// AddBlocks registers count blocks processed during the current phase.
func (s *SyncStatistics) AddBlocks(count uint64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.updatedAt = mstime.Now()
	s.blocksCount += count
}

// RegisterEmptyResponse registers a retrieval response that carried no
// items.
func (s *SyncStatistics) RegisterEmptyResponse() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.emptyResponses++
}

// HashesCount returns the amount of hashes processed during the current
// phase.
func (s *SyncStatistics) HashesCount() uint64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.hashesCount
}

// BlocksCount returns the amount of blocks processed during the current
// phase.
func (s *SyncStatistics) BlocksCount() uint64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.blocksCount
}

// EmptyResponsesCount returns the amount of empty retrieval responses seen
// during the current phase.
func (s *SyncStatistics) EmptyResponsesCount() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.emptyResponses
}

// MillisSinceLastUpdate returns the time passed since the statistics were
// last touched, in milliseconds.
func (s *SyncStatistics) MillisSinceLastUpdate() int64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return mstime.TimeToUnixMilli(mstime.Now()) - mstime.TimeToUnixMilli(s.updatedAt)
}

package peer

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/embercoin/emberd/app/appmessage"
)

// PeerStatistics tracks per-peer message counters and the chain state the
// peer announced. It is exclusively owned by one peer session but may be
// read from other goroutines, so all accessors are safe for concurrent use.
type PeerStatistics struct {
	inboundCount  uint64
	outboundCount uint64

	mtx                  sync.RWMutex
	totalDifficulty      *big.Int
	lastInboundStatus    *appmessage.MsgStatus
	lastDisconnectReason appmessage.ReasonCode
	disconnectedLocally  bool
}

// NewPeerStatistics returns new zeroed peer statistics.
func NewPeerStatistics() *PeerStatistics {
	return &PeerStatistics{
		totalDifficulty: big.NewInt(0),
	}
}

// AddInbound registers one inbound protocol message.
func (s *PeerStatistics) AddInbound() {
	atomic.AddUint64(&s.inboundCount, 1)
}

// AddOutbound registers one outbound protocol message.
func (s *PeerStatistics) AddOutbound() {
	atomic.AddUint64(&s.outboundCount, 1)
}

// InboundCount returns the amount of inbound protocol messages seen so far.
func (s *PeerStatistics) InboundCount() uint64 {
	return atomic.LoadUint64(&s.inboundCount)
}

// OutboundCount returns the amount of outbound protocol messages sent so
// far.
func (s *PeerStatistics) OutboundCount() uint64 {
	return atomic.LoadUint64(&s.outboundCount)
}

// RecordHandshake stores the peer's status announcement along with the
// total difficulty it declared.
func (s *PeerStatistics) RecordHandshake(msg *appmessage.MsgStatus) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.lastInboundStatus = msg
	if msg.TotalDifficulty != nil {
		s.totalDifficulty = new(big.Int).Set(msg.TotalDifficulty)
	}
}

// SetTotalDifficulty replaces the total difficulty the peer is known to
// have announced.
func (s *PeerStatistics) SetTotalDifficulty(totalDifficulty *big.Int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if totalDifficulty != nil {
		s.totalDifficulty = new(big.Int).Set(totalDifficulty)
	}
}

// TotalDifficulty returns the total difficulty the peer last announced.
func (s *PeerStatistics) TotalDifficulty() *big.Int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return new(big.Int).Set(s.totalDifficulty)
}

// LastInboundStatus returns the last status announcement received from the
// peer, or nil if the peer never announced one.
func (s *PeerStatistics) LastInboundStatus() *appmessage.MsgStatus {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.lastInboundStatus
}

// RecordLocalDisconnect registers that we disconnected the peer locally
// with the given reason.
func (s *PeerStatistics) RecordLocalDisconnect(reason appmessage.ReasonCode) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.disconnectedLocally = true
	s.lastDisconnectReason = reason
}

// LastDisconnectReason returns the reason of the last local disconnect and
// whether a local disconnect happened at all.
func (s *PeerStatistics) LastDisconnectReason() (appmessage.ReasonCode, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.lastDisconnectReason, s.disconnectedLocally
}

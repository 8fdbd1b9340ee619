package peer

import (
	"sync"
	"sync/atomic"

	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
	"github.com/embercoin/emberd/util/chainhash"
)

// HandshakeState is the state of the sub-protocol status exchange with a
// peer. It moves from HandshakeInit to exactly one of the terminal values
// and never changes afterwards.
type HandshakeState int32

// Handshake states.
const (
	HandshakeInit HandshakeState = iota
	HandshakeStatusSucceeded
	HandshakeStatusFailed
)

// blocksLackMaxHits is the amount of consecutive SyncStateBlocksLack
// requests it takes for the state to actually be committed. Requests below
// the threshold are discarded, which keeps a single transient gap from
// flapping a peer into the blocks-lack classification.
const blocksLackMaxHits = 5

// Peer holds the protocol-engine state for one connected peer. Sync state
// transitions normally happen on the peer's single handling goroutine, but
// teardown forces the idle state from whichever goroutine drops the session,
// so the state machine serializes transitions internally. The read-only
// queries are safe to call from any goroutine.
type Peer struct {
	peerID          *id.ID
	protocolVersion uint32

	handshakeState int32

	syncStateMtx   sync.Mutex
	syncState      int32
	blocksLackHits int

	bestKnownHashMtx sync.RWMutex
	bestKnownHash    *chainhash.Hash

	lastHashRequestedMtx sync.RWMutex
	lastHashRequested    *chainhash.Hash
	maxHashesPerRequest  uint64

	relayEnabled  uint32
	discoveryOnly bool

	retrievalStarter RetrievalStarter

	syncStats *SyncStatistics
	peerStats *PeerStatistics

	shutdown uint32
}

// New returns a new Peer for the given connection ID, speaking the given
// negotiated protocol version.
func New(peerID *id.ID, protocolVersion uint32, maxHashesPerRequest uint64, discoveryOnly bool) *Peer {
	return &Peer{
		peerID:              peerID,
		protocolVersion:     protocolVersion,
		relayEnabled:        1,
		discoveryOnly:       discoveryOnly,
		maxHashesPerRequest: maxHashesPerRequest,
		syncStats:           NewSyncStatistics(),
		peerStats:           NewPeerStatistics(),
	}
}

// SetRetrievalStarter injects the version-specific retrieval strategy. It
// must be called once, before any sync state transition is requested.
func (p *Peer) SetRetrievalStarter(starter RetrievalStarter) {
	p.retrievalStarter = starter
}

// ID returns the identifier the transport assigned this peer's connection.
func (p *Peer) ID() *id.ID {
	return p.peerID
}

// ProtocolVersion returns the protocol version negotiated for this peer. It
// is immutable after construction.
func (p *Peer) ProtocolVersion() uint32 {
	return p.protocolVersion
}

// IsDiscoveryOnly returns whether this session only exists to complete peer
// discovery and should be terminated right after the handshake.
func (p *Peer) IsDiscoveryOnly() bool {
	return p.discoveryOnly
}

// MarkHandshakeSucceeded moves the handshake state to its successful
// terminal value. It has no effect if the handshake already reached a
// terminal state.
func (p *Peer) MarkHandshakeSucceeded() {
	atomic.CompareAndSwapInt32(&p.handshakeState, int32(HandshakeInit), int32(HandshakeStatusSucceeded))
}

// MarkHandshakeFailed moves the handshake state to its failed terminal
// value. It has no effect if the handshake already reached a terminal state.
func (p *Peer) MarkHandshakeFailed() {
	atomic.CompareAndSwapInt32(&p.handshakeState, int32(HandshakeInit), int32(HandshakeStatusFailed))
}

// HasStatusPassed returns whether the status exchange reached a terminal
// state, successful or not.
func (p *Peer) HasStatusPassed() bool {
	return HandshakeState(atomic.LoadInt32(&p.handshakeState)) != HandshakeInit
}

// HasStatusSucceeded returns whether the status exchange completed
// successfully.
func (p *Peer) HasStatusSucceeded() bool {
	return HandshakeState(atomic.LoadInt32(&p.handshakeState)) == HandshakeStatusSucceeded
}

// SyncState returns the peer's current sync state.
func (p *Peer) SyncState() SyncState {
	return SyncState(atomic.LoadInt32(&p.syncState))
}

func (p *Peer) setSyncState(newState SyncState) {
	atomic.StoreInt32(&p.syncState, int32(newState))
}

// ChangeSyncState requests a transition of the peer's sync state machine to
// newState. Transitions into the retrieval states reset the sync statistics
// and invoke the corresponding retrieval starter; a block retrieval that
// could not be started downgrades the transition to SyncStateIdle.
// SyncStateBlocksLack requests are debounced: they only commit once the
// same transition has been requested blocksLackMaxHits times in a row
// without a different target state in between.
//
// Transitions are serialized against each other and against Shutdown. After
// teardown only the forced SyncStateIdle transition is honored; anything
// else racing the teardown is dropped.
func (p *Peer) ChangeSyncState(newState SyncState) {
	p.syncStateMtx.Lock()
	defer p.syncStateMtx.Unlock()

	if p.IsShutdown() && newState != SyncStateIdle {
		log.Debugf("Peer %s: ignoring sync state %s after teardown", p.peerID, newState)
		return
	}

	if newState != SyncStateBlocksLack {
		p.blocksLackHits = 0
	}

	currentState := p.SyncState()
	if currentState == newState {
		return
	}

	if newState != SyncStateIdle && !p.HasStatusSucceeded() {
		log.Debugf("Peer %s: refusing sync state %s before a successful status exchange",
			p.peerID, newState)
		return
	}

	log.Tracef("Peer %s: changing sync state from %s to %s", p.peerID, currentState, newState)

	switch newState {
	case SyncStateHashRetrieving:
		p.syncStats.Reset()
		p.retrievalStarter.StartHashRetrieval()
	case SyncStateBlockRetrieving:
		p.syncStats.Reset()
		started := p.retrievalStarter.StartBlockRetrieval()
		if !started {
			newState = SyncStateIdle
		}
	case SyncStateBlocksLack:
		p.blocksLackHits++
		if p.blocksLackHits < blocksLackMaxHits {
			return
		}
	}

	p.setSyncState(newState)
}

// IsHashRetrievingDone returns whether the peer has exhausted hash
// retrieval.
func (p *Peer) IsHashRetrievingDone() bool {
	return p.SyncState() == SyncStateDoneHashRetrieving
}

// IsHashRetrieving returns whether hashes are currently being retrieved
// from the peer.
func (p *Peer) IsHashRetrieving() bool {
	return p.SyncState() == SyncStateHashRetrieving
}

// HasBlocksLack returns whether the peer is currently classified as lacking
// blocks.
func (p *Peer) HasBlocksLack() bool {
	return p.SyncState() == SyncStateBlocksLack
}

// IsIdle returns whether no sync activity is currently delegated to the
// peer.
func (p *Peer) IsIdle() bool {
	return p.SyncState() == SyncStateIdle
}

// BestKnownHash returns the latest block hash the peer is known to possess.
func (p *Peer) BestKnownHash() *chainhash.Hash {
	p.bestKnownHashMtx.RLock()
	defer p.bestKnownHashMtx.RUnlock()
	return p.bestKnownHash
}

// SetBestKnownHash replaces the latest block hash the peer is known to
// possess with the most recent announcement.
func (p *Peer) SetBestKnownHash(hash *chainhash.Hash) {
	p.bestKnownHashMtx.Lock()
	defer p.bestKnownHashMtx.Unlock()
	p.bestKnownHash = hash
}

// LastHashRequested returns the hash retrieval cursor. Its usage depends on
// the negotiated protocol version.
func (p *Peer) LastHashRequested() *chainhash.Hash {
	p.lastHashRequestedMtx.RLock()
	defer p.lastHashRequestedMtx.RUnlock()
	return p.lastHashRequested
}

// SetLastHashRequested updates the hash retrieval cursor.
func (p *Peer) SetLastHashRequested(hash *chainhash.Hash) {
	p.lastHashRequestedMtx.Lock()
	defer p.lastHashRequestedMtx.Unlock()
	p.lastHashRequested = hash
}

// MaxHashesPerRequest returns the amount of hashes asked from this peer in
// a single retrieval round.
func (p *Peer) MaxHashesPerRequest() uint64 {
	return atomic.LoadUint64(&p.maxHashesPerRequest)
}

// SetMaxHashesPerRequest changes the amount of hashes asked from this peer
// in a single retrieval round.
func (p *Peer) SetMaxHashesPerRequest(maxHashes uint64) {
	atomic.StoreUint64(&p.maxHashesPerRequest, maxHashes)
}

// IsTransactionRelayEnabled returns whether inbound transactions from this
// peer are forwarded to the transaction pool.
func (p *Peer) IsTransactionRelayEnabled() bool {
	return atomic.LoadUint32(&p.relayEnabled) != 0
}

// EnableTransactionRelay turns forwarding of inbound transactions on.
func (p *Peer) EnableTransactionRelay() {
	atomic.StoreUint32(&p.relayEnabled, 1)
}

// DisableTransactionRelay turns forwarding of inbound transactions off.
// Inbound transactions are then dropped silently.
func (p *Peer) DisableTransactionRelay() {
	atomic.StoreUint32(&p.relayEnabled, 0)
}

// SyncStats returns the peer's statistics for the current sync phase.
func (p *Peer) SyncStats() *SyncStatistics {
	return p.syncStats
}

// PeerStats returns the peer's message and handshake statistics.
func (p *Peer) PeerStats() *PeerStatistics {
	return p.peerStats
}

// Shutdown forces the peer to SyncStateIdle and marks the session as torn
// down. It is idempotent.
func (p *Peer) Shutdown() {
	if !atomic.CompareAndSwapUint32(&p.shutdown, 0, 1) {
		return
	}
	log.Debugf("Peer %s: shutting down", p.peerID)
	p.ChangeSyncState(SyncStateIdle)
}

// IsShutdown returns whether the session was already torn down. Handlers
// racing a concurrent teardown use it to bail out silently.
func (p *Peer) IsShutdown() bool {
	return atomic.LoadUint32(&p.shutdown) != 0
}

func (p *Peer) String() string {
	return p.peerID.String()
}

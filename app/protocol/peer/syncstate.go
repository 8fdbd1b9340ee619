package peer

// SyncState classifies what synchronization activity is currently delegated
// to a peer.
type SyncState int32

// Sync states a peer may be in. A peer always starts and ends at
// SyncStateIdle.
const (
	// SyncStateIdle means no sync activity is delegated to the peer.
	SyncStateIdle SyncState = iota

	// SyncStateHashRetrieving means block hashes are currently being
	// requested from the peer.
	SyncStateHashRetrieving

	// SyncStateBlockRetrieving means full blocks are currently being
	// requested from the peer.
	SyncStateBlockRetrieving

	// SyncStateDoneHashRetrieving means the peer has exhausted its supply
	// of block hashes.
	SyncStateDoneHashRetrieving

	// SyncStateBlocksLack means the peer repeatedly failed to supply
	// blocks and is classified as lacking them.
	SyncStateBlocksLack
)

var syncStateStrings = map[SyncState]string{
	SyncStateIdle:               "IDLE",
	SyncStateHashRetrieving:     "HASH_RETRIEVING",
	SyncStateBlockRetrieving:    "BLOCK_RETRIEVING",
	SyncStateDoneHashRetrieving: "DONE_HASH_RETRIEVING",
	SyncStateBlocksLack:         "BLOCKS_LACK",
}

func (state SyncState) String() string {
	str, ok := syncStateStrings[state]
	if !ok {
		return "unknown state"
	}
	return str
}

// RetrievalStarter starts a retrieval round on a peer. Implementations are
// version-specific: how hashes and blocks are requested depends on the
// protocol version negotiated with the peer. Both operations may perform
// network I/O.
type RetrievalStarter interface {
	// StartHashRetrieval begins requesting block hashes from the peer.
	// Hash retrieval is assumed always startable.
	StartHashRetrieval()

	// StartBlockRetrieval begins requesting full blocks from the peer.
	// It returns false when there was nothing queued to retrieve and
	// therefore no retrieval was started.
	StartBlockRetrieval() (started bool)
}

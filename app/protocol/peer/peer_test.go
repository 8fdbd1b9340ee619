package peer

import (
	"math/big"
	"sync"
	"testing"

	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
	"github.com/embercoin/emberd/util/chainhash"
)

type retrievalStarterMock struct {
	hashRetrievalStarts  int
	blockRetrievalStarts int
	blockRetrievalResult bool
}

func (m *retrievalStarterMock) StartHashRetrieval() {
	m.hashRetrievalStarts++
}

func (m *retrievalStarterMock) StartBlockRetrieval() bool {
	m.blockRetrievalStarts++
	return m.blockRetrievalResult
}

func newTestPeer(t *testing.T) (*Peer, *retrievalStarterMock) {
	t.Helper()
	peerID, err := id.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	starter := &retrievalStarterMock{blockRetrievalResult: true}
	peer := New(peerID, appmessage.ProtocolVersion61, 512, false)
	peer.SetRetrievalStarter(starter)
	peer.MarkHandshakeSucceeded()
	return peer, starter
}

func TestChangeSyncStateIsIdempotent(t *testing.T) {
	peer, starter := newTestPeer(t)

	peer.ChangeSyncState(SyncStateHashRetrieving)
	if peer.SyncState() != SyncStateHashRetrieving {
		t.Fatalf("unexpected sync state: %s", peer.SyncState())
	}
	if starter.hashRetrievalStarts != 1 {
		t.Fatalf("expected 1 hash retrieval start, got %d", starter.hashRetrievalStarts)
	}

	// A second request for the current state must not reset statistics
	// or start another retrieval.
	peer.SyncStats().AddHashes(10)
	peer.ChangeSyncState(SyncStateHashRetrieving)
	if starter.hashRetrievalStarts != 1 {
		t.Errorf("second request started another retrieval: %d starts", starter.hashRetrievalStarts)
	}
	if peer.SyncStats().HashesCount() != 10 {
		t.Errorf("second request reset sync statistics: %d hashes", peer.SyncStats().HashesCount())
	}
}

func TestChangeSyncStateResetsSyncStatistics(t *testing.T) {
	peer, _ := newTestPeer(t)

	peer.SyncStats().AddHashes(42)
	peer.SyncStats().AddBlocks(7)
	peer.ChangeSyncState(SyncStateBlockRetrieving)

	if peer.SyncStats().HashesCount() != 0 || peer.SyncStats().BlocksCount() != 0 {
		t.Errorf("entering a retrieval phase should reset sync statistics, got %d hashes, %d blocks",
			peer.SyncStats().HashesCount(), peer.SyncStats().BlocksCount())
	}
}

func TestBlockRetrievingDowngradesToIdleWhenNotStarted(t *testing.T) {
	peer, starter := newTestPeer(t)
	starter.blockRetrievalResult = false

	peer.ChangeSyncState(SyncStateBlockRetrieving)
	if starter.blockRetrievalStarts != 1 {
		t.Fatalf("expected 1 block retrieval attempt, got %d", starter.blockRetrievalStarts)
	}
	if peer.SyncState() != SyncStateIdle {
		t.Errorf("expected downgrade to IDLE, got %s", peer.SyncState())
	}
}

func TestBlocksLackDebounce(t *testing.T) {
	peer, _ := newTestPeer(t)
	peer.ChangeSyncState(SyncStateHashRetrieving)

	// Four requests stay below the threshold and must be discarded.
	for i := 0; i < blocksLackMaxHits-1; i++ {
		peer.ChangeSyncState(SyncStateBlocksLack)
		if peer.SyncState() != SyncStateHashRetrieving {
			t.Fatalf("request %d committed prematurely: %s", i+1, peer.SyncState())
		}
	}

	// The fifth request commits.
	peer.ChangeSyncState(SyncStateBlocksLack)
	if peer.SyncState() != SyncStateBlocksLack {
		t.Fatalf("threshold request did not commit: %s", peer.SyncState())
	}
	if !peer.HasBlocksLack() {
		t.Error("HasBlocksLack should report true after commit")
	}
}

func TestBlocksLackCounterResetOnOtherTarget(t *testing.T) {
	peer, _ := newTestPeer(t)
	peer.ChangeSyncState(SyncStateHashRetrieving)

	for i := 0; i < blocksLackMaxHits-1; i++ {
		peer.ChangeSyncState(SyncStateBlocksLack)
	}

	// Any non-BLOCKS_LACK target resets the hit counter, including a
	// no-op request for the current state.
	peer.ChangeSyncState(SyncStateHashRetrieving)

	for i := 0; i < blocksLackMaxHits-1; i++ {
		peer.ChangeSyncState(SyncStateBlocksLack)
		if peer.SyncState() == SyncStateBlocksLack {
			t.Fatalf("request %d after reset committed prematurely", i+1)
		}
	}
	peer.ChangeSyncState(SyncStateBlocksLack)
	if peer.SyncState() != SyncStateBlocksLack {
		t.Errorf("expected commit after full round of requests, got %s", peer.SyncState())
	}
}

func TestShutdownForcesIdle(t *testing.T) {
	peer, _ := newTestPeer(t)

	peer.ChangeSyncState(SyncStateHashRetrieving)
	// Leave a partial debounce counter behind; shutdown must not care.
	peer.ChangeSyncState(SyncStateBlocksLack)
	peer.ChangeSyncState(SyncStateBlocksLack)

	peer.Shutdown()
	if peer.SyncState() != SyncStateIdle {
		t.Errorf("shutdown should force IDLE, got %s", peer.SyncState())
	}
	if !peer.IsShutdown() {
		t.Error("IsShutdown should report true after shutdown")
	}

	// Shutdown is idempotent.
	peer.Shutdown()
	if peer.SyncState() != SyncStateIdle {
		t.Errorf("second shutdown changed state to %s", peer.SyncState())
	}
}

func TestChangeSyncStateAfterShutdownIsDropped(t *testing.T) {
	peer, starter := newTestPeer(t)
	peer.Shutdown()

	peer.ChangeSyncState(SyncStateHashRetrieving)
	if peer.SyncState() != SyncStateIdle {
		t.Errorf("transition committed after teardown: %s", peer.SyncState())
	}
	if starter.hashRetrievalStarts != 0 {
		t.Errorf("retrieval started after teardown: %d starts", starter.hashRetrievalStarts)
	}
}

func TestShutdownConcurrentWithStateTransitions(t *testing.T) {
	peer, starter := newTestPeer(t)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			peer.ChangeSyncState(SyncStateHashRetrieving)
			peer.ChangeSyncState(SyncStateBlocksLack)
			peer.ChangeSyncState(SyncStateBlockRetrieving)
		}
	}()
	peer.Shutdown()
	wg.Wait()

	// Transitions that raced the teardown may have committed before it,
	// never after: once the forced IDLE lands the state stays put.
	if peer.SyncState() != SyncStateIdle {
		t.Errorf("state moved after shutdown: %s", peer.SyncState())
	}
	starts := starter.hashRetrievalStarts
	peer.ChangeSyncState(SyncStateHashRetrieving)
	if peer.SyncState() != SyncStateIdle || starter.hashRetrievalStarts != starts {
		t.Errorf("transition accepted on a discarded session: %s, %d starts",
			peer.SyncState(), starter.hashRetrievalStarts)
	}
}

func TestSyncStateRequiresSuccessfulHandshake(t *testing.T) {
	peerID, err := id.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	starter := &retrievalStarterMock{blockRetrievalResult: true}
	peer := New(peerID, appmessage.ProtocolVersion61, 512, false)
	peer.SetRetrievalStarter(starter)

	peer.ChangeSyncState(SyncStateHashRetrieving)
	if peer.SyncState() != SyncStateIdle {
		t.Errorf("peer advanced past IDLE without a handshake: %s", peer.SyncState())
	}
	if starter.hashRetrievalStarts != 0 {
		t.Errorf("retrieval started without a handshake: %d starts", starter.hashRetrievalStarts)
	}
}

func TestHandshakeStateTransitionsOnce(t *testing.T) {
	peer, _ := newTestPeer(t)

	// newTestPeer already marked success; a later failure must not
	// overwrite the terminal state.
	peer.MarkHandshakeFailed()
	if !peer.HasStatusSucceeded() {
		t.Error("terminal handshake state was overwritten")
	}
	if !peer.HasStatusPassed() {
		t.Error("HasStatusPassed should report true in a terminal state")
	}
}

func TestPeerStatistics(t *testing.T) {
	peer, _ := newTestPeer(t)
	stats := peer.PeerStats()

	stats.AddInbound()
	stats.AddInbound()
	stats.AddOutbound()
	if stats.InboundCount() != 2 || stats.OutboundCount() != 1 {
		t.Errorf("unexpected counters: %d inbound, %d outbound",
			stats.InboundCount(), stats.OutboundCount())
	}

	difficulty := big.NewInt(1 << 30)
	status := appmessage.NewMsgStatus(appmessage.ProtocolVersion61, 1, difficulty,
		&chainhash.Hash{0x01}, &chainhash.Hash{0x02})
	stats.RecordHandshake(status)
	if stats.TotalDifficulty().Cmp(difficulty) != 0 {
		t.Errorf("RecordHandshake did not store total difficulty: %s", stats.TotalDifficulty())
	}
	if stats.LastInboundStatus() != status {
		t.Error("RecordHandshake did not store the status message")
	}

	stats.RecordLocalDisconnect(appmessage.ReasonIncompatibleProtocol)
	reason, ok := stats.LastDisconnectReason()
	if !ok || reason != appmessage.ReasonIncompatibleProtocol {
		t.Errorf("unexpected disconnect reason: %s, recorded: %t", reason, ok)
	}
}

func TestBestKnownHashIsReplaced(t *testing.T) {
	peer, _ := newTestPeer(t)

	first := &chainhash.Hash{0x01}
	second := &chainhash.Hash{0x02}
	peer.SetBestKnownHash(first)
	peer.SetBestKnownHash(second)
	if !peer.BestKnownHash().IsEqual(second) {
		t.Errorf("BestKnownHash: got %s, want %s", peer.BestKnownHash(), second)
	}
}

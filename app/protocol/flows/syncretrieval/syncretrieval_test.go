package syncretrieval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embercoin/emberd/app/appmessage"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
	"github.com/embercoin/emberd/util/chainhash"
)

type senderMock struct {
	sentMessages []appmessage.Message
}

func (m *senderMock) SendMessage(message appmessage.Message) error {
	m.sentMessages = append(m.sentMessages, message)
	return nil
}

type hashStoreMock struct {
	hashes []*chainhash.Hash
}

func (m *hashStoreMock) PopHashes(maxHashes uint64) []*chainhash.Hash {
	if uint64(len(m.hashes)) <= maxHashes {
		popped := m.hashes
		m.hashes = nil
		return popped
	}
	popped := m.hashes[:maxHashes]
	m.hashes = m.hashes[maxHashes:]
	return popped
}

func newTestPeer(t *testing.T, protocolVersion uint32) *peerpkg.Peer {
	t.Helper()
	peerID, err := id.GenerateID()
	require.NoError(t, err)
	peer := peerpkg.New(peerID, protocolVersion, 16, false)
	peer.MarkHandshakeSucceeded()
	return peer
}

func TestStrategySelectionByVersion(t *testing.T) {
	sender := &senderMock{}
	store := &hashStoreMock{}

	v60Peer := newTestPeer(t, appmessage.ProtocolVersion60)
	_, isByHash := New(appmessage.ProtocolVersion60, sender, v60Peer, store).(*byHashStrategy)
	require.True(t, isByHash, "protocol version 60 should retrieve hashes by hash")

	v61Peer := newTestPeer(t, appmessage.ProtocolVersion61)
	_, isByNumber := New(appmessage.ProtocolVersion61, sender, v61Peer, store).(*byNumberStrategy)
	require.True(t, isByNumber, "protocol version 61 should retrieve hashes by number")
}

func TestByHashStrategyStartHashRetrieval(t *testing.T) {
	sender := &senderMock{}
	store := &hashStoreMock{}
	peer := newTestPeer(t, appmessage.ProtocolVersion60)
	bestHash := &chainhash.Hash{0xab}
	peer.SetBestKnownHash(bestHash)

	starter := New(appmessage.ProtocolVersion60, sender, peer, store)
	starter.StartHashRetrieval()

	require.Len(t, sender.sentMessages, 1)
	request, ok := sender.sentMessages[0].(*appmessage.MsgGetBlockHashes)
	require.True(t, ok, "expected a MsgGetBlockHashes, got %T", sender.sentMessages[0])
	require.True(t, request.FromHash.IsEqual(bestHash))
	require.Equal(t, uint64(16), request.MaxHashes)
	require.True(t, peer.LastHashRequested().IsEqual(bestHash),
		"hash retrieval should set the retrieval cursor")
}

func TestByNumberStrategyAdvancesCursor(t *testing.T) {
	sender := &senderMock{}
	store := &hashStoreMock{}
	peer := newTestPeer(t, appmessage.ProtocolVersion61)

	starter := New(appmessage.ProtocolVersion61, sender, peer, store)
	starter.StartHashRetrieval()
	starter.StartHashRetrieval()

	require.Len(t, sender.sentMessages, 2)
	first := sender.sentMessages[0].(*appmessage.MsgGetBlockHashesByNumber)
	second := sender.sentMessages[1].(*appmessage.MsgGetBlockHashesByNumber)
	require.Equal(t, uint64(0), first.StartNumber)
	require.Equal(t, uint64(16), second.StartNumber)
}

func TestStartBlockRetrieval(t *testing.T) {
	sender := &senderMock{}
	store := &hashStoreMock{}
	peer := newTestPeer(t, appmessage.ProtocolVersion61)
	starter := New(appmessage.ProtocolVersion61, sender, peer, store)

	// Nothing queued: not started, nothing sent.
	require.False(t, starter.StartBlockRetrieval())
	require.Empty(t, sender.sentMessages)

	// Queued hashes: started, one MsgGetBlocks with the popped hashes.
	store.hashes = []*chainhash.Hash{{0x01}, {0x02}, {0x03}}
	require.True(t, starter.StartBlockRetrieval())
	require.Len(t, sender.sentMessages, 1)
	request, ok := sender.sentMessages[0].(*appmessage.MsgGetBlocks)
	require.True(t, ok, "expected a MsgGetBlocks, got %T", sender.sentMessages[0])
	require.Len(t, request.Hashes, 3)
}

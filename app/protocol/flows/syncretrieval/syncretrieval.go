package syncretrieval

import (
	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/common"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/util/chainhash"
)

// HashStore supplies the block hashes that were collected during hash
// retrieval and are queued for block retrieval. It is shared by all peer
// sessions and must be safe for concurrent use.
type HashStore interface {
	// PopHashes removes up to maxHashes queued hashes from the store and
	// returns them. An empty slice means nothing is queued.
	PopHashes(maxHashes uint64) []*chainhash.Hash
}

// New selects the retrieval strategy matching the protocol version
// negotiated with the peer. Version 61 and above retrieve hashes by block
// number; older peers are walked backwards from their best known hash.
func New(protocolVersion uint32, sender common.MessageSender, peer *peerpkg.Peer,
	store HashStore) peerpkg.RetrievalStarter {

	if protocolVersion >= appmessage.ProtocolVersion61 {
		return &byNumberStrategy{
			baseStrategy: baseStrategy{sender: sender, peer: peer, store: store},
		}
	}
	return &byHashStrategy{
		baseStrategy: baseStrategy{sender: sender, peer: peer, store: store},
	}
}

// baseStrategy implements block retrieval, which is identical for all
// protocol versions.
type baseStrategy struct {
	sender common.MessageSender
	peer   *peerpkg.Peer
	store  HashStore
}

// StartBlockRetrieval pops queued hashes from the shared store and requests
// their bodies from the peer. It returns false when nothing was queued.
func (s *baseStrategy) StartBlockRetrieval() bool {
	hashes := s.store.PopHashes(s.peer.MaxHashesPerRequest())
	if len(hashes) == 0 {
		log.Debugf("Peer %s: no hashes queued, block retrieval not started", s.peer)
		return false
	}

	err := s.sender.SendMessage(appmessage.NewMsgGetBlocks(hashes))
	if err != nil {
		log.Errorf("Peer %s: couldn't request %d blocks: %s", s.peer, len(hashes), err)
	}
	return true
}

// byHashStrategy requests hashes walking backwards from a block hash, the
// only mode protocol version 60 peers understand.
type byHashStrategy struct {
	baseStrategy
}

// StartHashRetrieval requests the next round of hashes from the peer,
// continuing from the retrieval cursor when one is set.
func (s *byHashStrategy) StartHashRetrieval() {
	fromHash := s.peer.LastHashRequested()
	if fromHash == nil {
		fromHash = s.peer.BestKnownHash()
	}
	s.peer.SetLastHashRequested(fromHash)

	err := s.sender.SendMessage(appmessage.NewMsgGetBlockHashes(fromHash, s.peer.MaxHashesPerRequest()))
	if err != nil {
		log.Errorf("Peer %s: couldn't request hashes from %s: %s", s.peer, fromHash, err)
	}
}

// byNumberStrategy requests hashes by ascending block number, available
// since protocol version 61.
type byNumberStrategy struct {
	baseStrategy
	nextNumber uint64
}

// StartHashRetrieval requests the next round of hashes from the peer and
// advances the number cursor past the requested range.
func (s *byNumberStrategy) StartHashRetrieval() {
	maxHashes := s.peer.MaxHashesPerRequest()
	err := s.sender.SendMessage(appmessage.NewMsgGetBlockHashesByNumber(s.nextNumber, maxHashes))
	if err != nil {
		log.Errorf("Peer %s: couldn't request hashes from number %d: %s", s.peer, s.nextNumber, err)
		return
	}
	s.nextNumber += maxHashes
}

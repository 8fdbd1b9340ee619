package blockrelay

import (
	"math/big"

	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/common"
	"github.com/embercoin/emberd/app/protocol/flowcontext"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/app/protocol/protocolerrors"
)

// HandleNewBlockContext is the interface for the context needed for the
// HandleNewBlock flow.
type HandleNewBlockContext interface {
	ImportQueue() flowcontext.ImportQueue
}

// HandleNewBlock records the peer's announced chain state and forwards the
// block to the import queue. Ordering and connection to the local chain are
// the queue's responsibility.
func HandleNewBlock(context HandleNewBlockContext, peer *peerpkg.Peer,
	msg *appmessage.MsgNewBlock) error {

	if msg.Block == nil {
		return protocolerrors.Errorf(true, "got new block announcement with no block")
	}

	blockHash := msg.Block.BlockHash()
	log.Debugf("Got new block %s from %s, total difficulty %s",
		blockHash, peer, msg.TotalDifficulty)

	peer.PeerStats().SetTotalDifficulty(msg.TotalDifficulty)
	peer.SetBestKnownHash(blockHash)

	context.ImportQueue().AddNewBlock(msg.Block, peer.ID())
	return nil
}

// SendNewBlock announces a freshly imported block along with the chain's
// cumulative difficulty to the peer.
func SendNewBlock(sender common.MessageSender, block *appmessage.MsgBlock,
	totalDifficulty *big.Int) error {

	return sender.SendMessage(appmessage.NewMsgNewBlock(block, totalDifficulty))
}

package handshake

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/common"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/infrastructure/config"
	"github.com/embercoin/emberd/infrastructure/logger"
	"github.com/embercoin/emberd/infrastructure/network/netadapter"
	"github.com/embercoin/emberd/util/chainhash"
)

// Outcome is the result of validating a peer's status announcement.
type Outcome int

// Status validation outcomes.
const (
	// OutcomeSuccess means the peer is compatible and the handshake
	// succeeded.
	OutcomeSuccess Outcome = iota

	// OutcomeIncompatible means the peer is built on a different genesis
	// or speaks a different protocol version. The sub-protocol handler is
	// detached but the connection may survive for other sub-protocols.
	OutcomeIncompatible

	// OutcomeWrongNetwork means the peer is on a different ember network.
	OutcomeWrongNetwork

	// OutcomeDiscoveryComplete means the session existed only for peer
	// discovery and is terminated now that the status arrived. This is an
	// expected terminal condition, not an error.
	OutcomeDiscoveryComplete

	// OutcomeStaleSession means the session was torn down before the
	// status could be processed. No side effects were performed.
	OutcomeStaleSession
)

var outcomeStrings = map[Outcome]string{
	OutcomeSuccess:           "SUCCESS",
	OutcomeIncompatible:      "INCOMPATIBLE",
	OutcomeWrongNetwork:      "WRONG_NETWORK",
	OutcomeDiscoveryComplete: "DISCOVERY_COMPLETE",
	OutcomeStaleSession:      "STALE_SESSION",
}

func (o Outcome) String() string {
	str, ok := outcomeStrings[o]
	if !ok {
		return "unknown outcome"
	}
	return str
}

// HandleStatusContext is the interface for the context needed for the
// HandleStatus flow.
type HandleStatusContext interface {
	Config() *config.Config
}

type handleStatusFlow struct {
	HandleStatusContext
	connection netadapter.Connection
	peer       *peerpkg.Peer
}

// HandleStatus validates the peer's status announcement against the local
// chain parameters and either completes the handshake or disconnects the
// peer. A session torn down concurrently yields OutcomeStaleSession with no
// further side effects.
func HandleStatus(context HandleStatusContext, connection netadapter.Connection,
	peer *peerpkg.Peer, msg *appmessage.MsgStatus) (Outcome, error) {

	flow := &handleStatusFlow{
		HandleStatusContext: context,
		connection:          connection,
		peer:                peer,
	}
	return flow.start(msg)
}

func (flow *handleStatusFlow) start(msg *appmessage.MsgStatus) (Outcome, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "handleStatusFlow.start")
	defer onEnd()

	if flow.peer.IsShutdown() {
		log.Debugf("Status from %s arrived after session teardown", flow.connection)
		return OutcomeStaleSession, nil
	}

	flow.peer.PeerStats().RecordHandshake(msg)

	params := flow.Config().ActiveNetParams
	if !params.GenesisHash.IsEqual(msg.GenesisHash) ||
		msg.ProtocolVersion != flow.peer.ProtocolVersion() {

		log.Infof("Removing handler for %s due to protocol incompatibility", flow.connection)
		flow.peer.MarkHandshakeFailed()
		flow.disconnect(appmessage.ReasonIncompatibleProtocol)
		err := flow.connection.RemoveHandler()
		if errors.Is(err, netadapter.ErrHandlerAlreadyRemoved) {
			log.Debugf("Handler for %s was already removed", flow.connection)
			return OutcomeStaleSession, nil
		}
		if err != nil {
			return OutcomeIncompatible, err
		}
		return OutcomeIncompatible, nil
	}

	if msg.NetworkID != params.NetworkID {
		flow.peer.MarkHandshakeFailed()
		flow.disconnect(appmessage.ReasonNullIdentity)
		return OutcomeWrongNetwork, nil
	}

	if flow.peer.IsDiscoveryOnly() {
		log.Debugf("Peer discovery mode: status received from %s, disconnecting", flow.connection)
		flow.disconnect(appmessage.ReasonRequested)
		err := flow.connection.Close()
		if err != nil {
			return OutcomeDiscoveryComplete, err
		}
		return OutcomeDiscoveryComplete, nil
	}

	flow.peer.MarkHandshakeSucceeded()
	flow.peer.SetBestKnownHash(msg.BestHash)

	return OutcomeSuccess, nil
}

func (flow *handleStatusFlow) disconnect(reason appmessage.ReasonCode) {
	err := flow.connection.Disconnect(reason)
	if err != nil {
		log.Debugf("Couldn't disconnect from %s: %s", flow.connection, err)
	}
	flow.peer.PeerStats().RecordLocalDisconnect(reason)
}

// SendStatusContext is the interface for the context needed for the
// SendStatus flow.
type SendStatusContext interface {
	Config() *config.Config
	BestBlockHash() *chainhash.Hash
	TotalDifficulty() *big.Int
}

// SendStatus announces the local chain state to the peer. It is called once
// per session, right after the sub-protocol is attached.
func SendStatus(context SendStatusContext, sender common.MessageSender, peer *peerpkg.Peer) error {
	params := context.Config().ActiveNetParams
	msg := appmessage.NewMsgStatus(
		peer.ProtocolVersion(),
		params.NetworkID,
		context.TotalDifficulty(),
		context.BestBlockHash(),
		params.GenesisHash,
	)
	return sender.SendMessage(msg)
}

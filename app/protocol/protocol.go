package protocol

import (
	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/flowcontext"
	"github.com/embercoin/emberd/app/protocol/flows/blockrelay"
	"github.com/embercoin/emberd/app/protocol/flows/handshake"
	"github.com/embercoin/emberd/app/protocol/flows/transactionrelay"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/app/protocol/protocolerrors"
	"github.com/embercoin/emberd/infrastructure/network/netadapter"
	"github.com/embercoin/emberd/util/chainhash"
)

// VersionedMessageHandler handles the message kinds this core does not
// process itself. When no handler is installed those messages are dropped.
type VersionedMessageHandler interface {
	HandleMessage(session *Session, message appmessage.Message) error
}

// Session drives the ember sub-protocol for a single peer connection. The
// transport layer owns one goroutine per connection and calls
// HandleInboundMessage sequentially, in stream order. Sessions share nothing
// but the flow context collaborators.
type Session struct {
	context          *flowcontext.FlowContext
	connection       netadapter.Connection
	peer             *peerpkg.Peer
	versionedHandler VersionedMessageHandler
}

func newSession(context *flowcontext.FlowContext, connection netadapter.Connection,
	peer *peerpkg.Peer) *Session {

	return &Session{
		context:    context,
		connection: connection,
		peer:       peer,
	}
}

// Peer returns the peer state owned by this session.
func (s *Session) Peer() *peerpkg.Peer {
	return s.peer
}

// SetVersionedMessageHandler installs the handler for message kinds outside
// this core. It must be called before the session receives messages.
func (s *Session) SetVersionedMessageHandler(handler VersionedMessageHandler) {
	s.versionedHandler = handler
}

// SendMessage hands an outbound message to the transport and counts it in
// the peer statistics.
func (s *Session) SendMessage(message appmessage.Message) error {
	s.peer.PeerStats().AddOutbound()
	return s.connection.SendMessage(message)
}

// Activate attaches the sub-protocol to the connection and announces the
// local chain state. It is called exactly once, before any inbound message
// is dispatched.
func (s *Session) Activate() error {
	log.Debugf("Activating ember sub-protocol for %s", s.connection)
	return handshake.SendStatus(s.context, s, s.peer)
}

// HandleInboundMessage dispatches one decoded inbound message. Any returned
// error is terminal for the connection; the transport must disconnect the
// peer and tear down the session.
func (s *Session) HandleInboundMessage(message appmessage.Message) error {
	s.peer.PeerStats().AddInbound()

	command := message.Command()
	if !command.IsInRangeFor(s.peer.ProtocolVersion()) {
		return protocolerrors.Errorf(true, "message command %s is out of range for "+
			"protocol version %d", command, s.peer.ProtocolVersion())
	}

	switch msg := message.(type) {
	case *appmessage.MsgStatus:
		outcome, err := handshake.HandleStatus(s.context, s.connection, s.peer, msg)
		if err != nil {
			return err
		}
		log.Debugf("Status from %s validated with outcome %s", s.peer, outcome)
		return nil
	case *appmessage.MsgTransactions:
		return transactionrelay.HandleTransactions(s.context, s.peer, msg)
	case *appmessage.MsgNewBlock:
		return blockrelay.HandleNewBlock(s.context, s.peer, msg)
	default:
		if s.versionedHandler == nil {
			log.Tracef("No handler for %s from %s, dropping", command, s.peer)
			return nil
		}
		return s.versionedHandler.HandleMessage(s, message)
	}
}

// ChangeSyncState requests a sync state transition for this peer.
func (s *Session) ChangeSyncState(newState peerpkg.SyncState) {
	s.peer.ChangeSyncState(newState)
}

// SyncState returns the peer's current sync state.
func (s *Session) SyncState() peerpkg.SyncState {
	return s.peer.SyncState()
}

// HasHandshakePassed returns whether the status exchange reached a terminal
// state, successful or not.
func (s *Session) HasHandshakePassed() bool {
	return s.peer.HasStatusPassed()
}

// HasHandshakeSucceeded returns whether the status exchange completed
// successfully.
func (s *Session) HasHandshakeSucceeded() bool {
	return s.peer.HasStatusSucceeded()
}

// HandshakeStatus returns the last status announcement received from the
// peer, or nil if none arrived yet.
func (s *Session) HandshakeStatus() *appmessage.MsgStatus {
	return s.peer.PeerStats().LastInboundStatus()
}

// BestKnownHash returns the latest block hash the peer is known to possess.
func (s *Session) BestKnownHash() *chainhash.Hash {
	return s.peer.BestKnownHash()
}

// SyncStats returns the peer's sync phase statistics.
func (s *Session) SyncStats() *peerpkg.SyncStatistics {
	return s.peer.SyncStats()
}

// PeerStats returns the peer's message and chain statistics.
func (s *Session) PeerStats() *peerpkg.PeerStatistics {
	return s.peer.PeerStats()
}

// EnableTransactionRelay resumes forwarding inbound transactions to the
// pool.
func (s *Session) EnableTransactionRelay() {
	s.peer.EnableTransactionRelay()
}

// DisableTransactionRelay stops forwarding inbound transactions to the
// pool.
func (s *Session) DisableTransactionRelay() {
	s.peer.DisableTransactionRelay()
}

// RelayNewBlock announces a block to this peer together with the local
// chain's cumulative difficulty.
func (s *Session) RelayNewBlock(block *appmessage.MsgBlock) error {
	return blockrelay.SendNewBlock(s, block, s.context.TotalDifficulty())
}

// RelayTransaction relays a single transaction to this peer.
func (s *Session) RelayTransaction(transaction *appmessage.MsgTx) error {
	return transactionrelay.SendTransaction(s, transaction)
}

// LogSyncStats writes a one-line summary of the current sync phase.
func (s *Session) LogSyncStats() {
	state := s.peer.SyncState()
	stats := s.peer.SyncStats()
	switch state {
	case peerpkg.SyncStateHashRetrieving:
		log.Infof("Peer %s: [state %s, hashes count %d]",
			s.peer, state, stats.HashesCount())
	case peerpkg.SyncStateBlockRetrieving:
		log.Infof("Peer %s: [state %s, blocks count %d, empty responses %d]",
			s.peer, state, stats.BlocksCount(), stats.EmptyResponsesCount())
	default:
		log.Infof("Peer %s: [state %s]", s.peer, state)
	}
}

// Shutdown forces the sync state to idle and marks the session as torn
// down. Safe to call more than once and concurrently with message handling.
func (s *Session) Shutdown() {
	log.Debugf("Shutting down session for %s", s.peer)
	s.peer.Shutdown()
}

package protocol

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/common"
	"github.com/embercoin/emberd/app/protocol/flowcontext"
	"github.com/embercoin/emberd/app/protocol/flows/syncretrieval"
	peerpkg "github.com/embercoin/emberd/app/protocol/peer"
	"github.com/embercoin/emberd/infrastructure/config"
	"github.com/embercoin/emberd/infrastructure/network/netadapter"
	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
)

// Manager owns all active peer sessions of the ember sub-protocol. It hands
// each new connection a session wired to the shared flow context and relays
// locally originated blocks and transactions to every ready peer.
type Manager struct {
	context *flowcontext.FlowContext

	mtx      sync.RWMutex
	sessions map[string]*Session
	isClosed bool
}

// NewManager creates a manager over the given configuration and external
// collaborators.
func NewManager(cfg *config.Config, chainState flowcontext.ChainState,
	importQueue flowcontext.ImportQueue, txPool flowcontext.TransactionPool,
	walletObserver flowcontext.WalletObserver, hashStore syncretrieval.HashStore) *Manager {

	return &Manager{
		context: flowcontext.New(cfg, chainState, importQueue, txPool,
			walletObserver, hashStore),
		sessions: make(map[string]*Session),
	}
}

// Context returns the flow context shared by all sessions.
func (m *Manager) Context() *flowcontext.FlowContext {
	return m.context
}

// AddPeer creates, registers and activates a session for the given
// connection. The negotiated protocol version selects the retrieval
// strategy the sync state machine will invoke for this peer.
func (m *Manager) AddPeer(connection netadapter.Connection, protocolVersion uint32,
	discoveryOnly bool) (*Session, error) {

	peerID := connection.ID()
	if peerID == nil {
		return nil, errors.New("cannot add a peer with no ID")
	}

	cfg := m.context.Config()
	peer := peerpkg.New(peerID, protocolVersion, cfg.MaxHashesPerRequest, discoveryOnly)
	if cfg.DisableTransactionRelay {
		peer.DisableTransactionRelay()
	}

	session := newSession(m.context, connection, peer)
	starter := syncretrieval.New(protocolVersion, session, peer, m.context.SyncHashStore())
	peer.SetRetrievalStarter(starter)

	err := m.registerSession(session)
	if err != nil {
		return nil, err
	}

	err = session.Activate()
	if err != nil {
		m.RemovePeer(peerID)
		return nil, err
	}
	return session, nil
}

func (m *Manager) registerSession(session *Session) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.isClosed {
		return errors.New("cannot add a peer to a closed manager")
	}
	key := session.Peer().ID().String()
	if _, ok := m.sessions[key]; ok {
		return errors.Wrapf(common.ErrPeerWithSameIDExists,
			"peer with ID %s already exists", session.Peer().ID())
	}
	m.sessions[key] = session
	return nil
}

// RemovePeer shuts down and unregisters the session of the given peer. It
// is a no-op when no such session exists.
func (m *Manager) RemovePeer(peerID *id.ID) {
	m.mtx.Lock()
	session, ok := m.sessions[peerID.String()]
	if ok {
		delete(m.sessions, peerID.String())
	}
	m.mtx.Unlock()

	if ok {
		session.Shutdown()
	}
}

// Session returns the session of the given peer, or nil when no such
// session exists.
func (m *Manager) Session(peerID *id.ID) *Session {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.sessions[peerID.String()]
}

// Sessions returns a snapshot of all registered sessions.
func (m *Manager) Sessions() []*Session {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// readySessions returns the sessions whose handshake completed
// successfully and which were not torn down since.
func (m *Manager) readySessions() []*Session {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		if session.HasHandshakeSucceeded() && !session.Peer().IsShutdown() {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// Broadcast sends a message to every ready session. Sends run concurrently
// and a failed send only affects its own peer.
func (m *Manager) Broadcast(message appmessage.Message) {
	m.broadcast(func(session *Session) error {
		return session.SendMessage(message)
	})
}

// RelayNewBlock announces a locally imported block to every ready session.
func (m *Manager) RelayNewBlock(block *appmessage.MsgBlock) {
	m.broadcast(func(session *Session) error {
		return session.RelayNewBlock(block)
	})
}

// RelayTransaction relays a locally accepted transaction to every ready
// session.
func (m *Manager) RelayTransaction(transaction *appmessage.MsgTx) {
	m.broadcast(func(session *Session) error {
		return session.RelayTransaction(transaction)
	})
}

func (m *Manager) broadcast(send func(session *Session) error) {
	var wg sync.WaitGroup
	for _, session := range m.readySessions() {
		wg.Add(1)
		session := session
		spawn("Manager.broadcast", func() {
			defer wg.Done()
			err := send(session)
			if err != nil {
				log.Debugf("Couldn't send to %s: %s", session.Peer(), err)
			}
		})
	}
	wg.Wait()
}

// Close shuts down every session and rejects new peers from now on.
func (m *Manager) Close() {
	m.mtx.Lock()
	m.isClosed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[string]*Session)
	m.mtx.Unlock()

	for _, session := range sessions {
		session.Shutdown()
	}
}

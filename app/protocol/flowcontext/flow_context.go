package flowcontext

import (
	"math/big"

	"github.com/embercoin/emberd/app/appmessage"
	"github.com/embercoin/emberd/app/protocol/flows/syncretrieval"
	"github.com/embercoin/emberd/infrastructure/config"
	"github.com/embercoin/emberd/infrastructure/network/netadapter/id"
	"github.com/embercoin/emberd/util/chainhash"
)

// ImportQueue is the external collaborator that orders blocks received from
// peers and decides how to connect them to the local chain. It must be safe
// for concurrent use from many peer sessions.
type ImportQueue interface {
	// AddNewBlock enqueues a block received from the peer with the given
	// ID.
	AddNewBlock(block *appmessage.MsgBlock, peerID *id.ID)
}

// TransactionPool is the external collaborator admitting relayed
// transactions. It must be safe for concurrent use from many peer sessions.
type TransactionPool interface {
	// AddPending enqueues transactions for pool admission.
	AddPending(transactions []*appmessage.MsgTx)
}

// WalletObserver is the external bookkeeping collaborator notified about
// every relayed transaction. It must be safe for concurrent use from many
// peer sessions.
type WalletObserver interface {
	OnTransaction(transaction *appmessage.MsgTx)
}

// ChainState is a read-only view of the local chain used to build our own
// status announcement.
type ChainState interface {
	BestBlockHash() *chainhash.Hash
	TotalDifficulty() *big.Int
}

// FlowContext holds the shared state and collaborators given to all peer
// sessions. The collaborators are shared across sessions and provide their
// own synchronization; FlowContext performs no locking around them.
type FlowContext struct {
	cfg            *config.Config
	chainState     ChainState
	importQueue    ImportQueue
	txPool         TransactionPool
	walletObserver WalletObserver
	hashStore      syncretrieval.HashStore
}

// New returns a new flow context ready to serve peer sessions.
func New(cfg *config.Config, chainState ChainState, importQueue ImportQueue,
	txPool TransactionPool, walletObserver WalletObserver, hashStore syncretrieval.HashStore) *FlowContext {

	return &FlowContext{
		cfg:            cfg,
		chainState:     chainState,
		importQueue:    importQueue,
		txPool:         txPool,
		walletObserver: walletObserver,
		hashStore:      hashStore,
	}
}

// Config returns the engine configuration.
func (f *FlowContext) Config() *config.Config {
	return f.cfg
}

// BestBlockHash returns the hash of the local best block.
func (f *FlowContext) BestBlockHash() *chainhash.Hash {
	return f.chainState.BestBlockHash()
}

// TotalDifficulty returns the cumulative difficulty of the local best
// chain.
func (f *FlowContext) TotalDifficulty() *big.Int {
	return f.chainState.TotalDifficulty()
}

// ImportQueue returns the block import queue shared by all sessions.
func (f *FlowContext) ImportQueue() ImportQueue {
	return f.importQueue
}

// TxPool returns the transaction pool shared by all sessions.
func (f *FlowContext) TxPool() TransactionPool {
	return f.txPool
}

// WalletObserver returns the wallet observer shared by all sessions.
func (f *FlowContext) WalletObserver() WalletObserver {
	return f.walletObserver
}

// SyncHashStore returns the store of block hashes queued for retrieval,
// shared by all sessions.
func (f *FlowContext) SyncHashStore() syncretrieval.HashStore {
	return f.hashStore
}

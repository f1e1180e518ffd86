// Package connect holds the canonical wallet connection state and drives
// connect, disconnect and network-switch flows against the wallet provider.
package connect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vietddude/walletbridge/internal/core/domain"
	"github.com/vietddude/walletbridge/internal/core/networks"
	"github.com/vietddude/walletbridge/internal/infra/metrics"
	"github.com/vietddude/walletbridge/internal/infra/provider"
)

// ErrConnectInFlight is returned when Connect is called while another
// connect attempt is still running. Overlapping attempts are rejected
// rather than interleaved.
var ErrConnectInFlight = errors.New("connect already in progress")

// WalletBridge is the capability surface the manager needs from the
// provider bridge.
type WalletBridge interface {
	Available(ctx context.Context) bool
	RequestAccounts(ctx context.Context) ([]string, error)
	Accounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (uint64, error)
	BalanceOf(ctx context.Context, address string) (string, error)
	SwitchChain(ctx context.Context, chainID uint64) error
	AddChain(ctx context.Context, desc networks.Descriptor) error
	OnAccountsChanged(fn func([]string)) func()
	OnChainChanged(fn func(uint64)) func()
}

// FlagStore persists the previously-connected flag.
type FlagStore interface {
	Set(ctx context.Context) error
	Clear(ctx context.Context) error
	WasConnected(ctx context.Context) (bool, error)
}

// AddressSyncer mirrors the active address into the backend profile.
type AddressSyncer interface {
	SyncAddress(ctx context.Context, address string)
}

// Status is the manager's published state, consumed by the UI layer.
type Status struct {
	State     domain.ConnectionState `json:"state"`
	LastError string                 `json:"lastError,omitempty"`
	Wallet    *domain.WalletSnapshot `json:"wallet,omitempty"`
}

// Manager owns the connection state machine. The snapshot is replaced as a
// whole under the lock, so readers never observe a partially updated wallet;
// when refreshes race, the last writer wins.
type Manager struct {
	wallet      WalletBridge
	negotiator  *Negotiator
	flags       FlagStore
	syncer      AddressSyncer // nil when no backend is configured
	targetChain uint64
	log         *slog.Logger

	mu            sync.Mutex
	state         State
	lastErr       string
	snapshot      *domain.WalletSnapshot
	stateCallback func(Transition)

	unsubs []func()
}

// NewManager creates a manager and subscribes it to provider change events.
// The target chain is fixed for the manager's lifetime. Close releases the
// event subscriptions.
func NewManager(
	wallet WalletBridge,
	flags FlagStore,
	syncer AddressSyncer,
	targetChain uint64,
	log *slog.Logger,
) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		wallet:      wallet,
		negotiator:  NewNegotiator(wallet, log),
		flags:       flags,
		syncer:      syncer,
		targetChain: targetChain,
		log:         log,
		state:       domain.ConnectionDisconnected,
	}

	m.unsubs = append(m.unsubs,
		wallet.OnAccountsChanged(m.onAccountsChanged),
		wallet.OnChainChanged(m.onChainChanged),
	)

	return m
}

// SetStateChangeCallback registers a callback fired on every state change.
func (m *Manager) SetStateChangeCallback(fn func(Transition)) {
	m.mu.Lock()
	m.stateCallback = fn
	m.mu.Unlock()
}

// Status returns the published connection state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{State: m.state, LastError: m.lastErr}
	if m.snapshot != nil {
		snap := *m.snapshot
		s.Wallet = &snap
	}
	return s
}

// TargetChain returns the chain the manager keeps wallets on.
func (m *Manager) TargetChain() uint64 {
	return m.targetChain
}

// Connect attaches the wallet: prompts for accounts, moves the wallet onto
// the target chain when needed, refreshes the snapshot and records the
// previously-connected flag. The backend profile sync is fired and
// forgotten; its outcome never affects the connect result.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.wallet.Available(ctx) {
		m.failWith("No wallet provider detected. Install a wallet and try again.")
		return provider.ErrUnavailable
	}

	m.mu.Lock()
	if m.state == domain.ConnectionConnecting {
		m.mu.Unlock()
		return ErrConnectInFlight
	}
	m.setStateLocked(domain.ConnectionConnecting, "connect requested")
	m.snapshot = nil
	m.lastErr = ""
	m.mu.Unlock()

	metrics.ConnectAttemptsTotal.Inc()
	attempt := uuid.NewString()
	m.log.Info("Connecting wallet", "attempt", attempt, "target_chain", m.targetChain)

	accounts, err := m.wallet.RequestAccounts(ctx)
	if err != nil {
		return m.fail("request_accounts", "Wallet connection was declined.", err)
	}
	if len(accounts) == 0 {
		return m.fail("request_accounts", "The wallet granted no accounts.",
			errors.New("provider returned no accounts"))
	}

	current, err := m.wallet.ChainID(ctx)
	if err != nil {
		return m.fail("read_chain", "Could not read the wallet's network.", err)
	}
	if current != m.targetChain {
		if err := m.negotiator.EnsureOnChain(ctx, m.targetChain); err != nil {
			return m.fail("switch_chain", fmt.Sprintf(
				"Please switch your wallet to %s.", networks.DisplayName(m.targetChain)), err)
		}
	}

	if err := m.refresh(ctx); err != nil {
		return m.fail("refresh", "Could not read wallet details.", err)
	}

	if len(accounts) > 0 && m.syncer != nil {
		go m.syncer.SyncAddress(context.WithoutCancel(ctx), accounts[0])
	}

	if err := m.flags.Set(ctx); err != nil {
		m.log.Warn("Failed to persist connected flag", "error", err)
	}

	m.log.Info("Wallet connected", "attempt", attempt)
	return nil
}

// Disconnect clears the snapshot and the persisted flag. Provider-side
// permissions are outside this system's control and stay untouched.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	m.snapshot = nil
	m.lastErr = ""
	m.setStateLocked(domain.ConnectionDisconnected, "disconnect requested")
	m.mu.Unlock()

	if err := m.flags.Clear(ctx); err != nil {
		m.log.Warn("Failed to clear connected flag", "error", err)
	}
	return nil
}

// SwitchNetwork drives the switch/add handshake for an arbitrary chain,
// independent of connection state. Failures are reported to the caller but
// never become a terminal state change.
func (m *Manager) SwitchNetwork(ctx context.Context, chainID uint64) error {
	if err := m.negotiator.EnsureOnChain(ctx, chainID); err != nil {
		m.log.Warn("Network switch failed", "chain", chainID, "error", err)
		return err
	}
	if err := m.refresh(ctx); err != nil {
		m.log.Warn("Refresh after network switch failed", "error", err)
	}
	return nil
}

// Restore silently re-attaches a previously connected wallet on startup,
// without prompting the user. It is a no-op when the flag is unset or the
// provider no longer authorises any account.
func (m *Manager) Restore(ctx context.Context) error {
	was, err := m.flags.WasConnected(ctx)
	if err != nil {
		return fmt.Errorf("reading connected flag: %w", err)
	}
	if !was {
		return nil
	}

	m.log.Info("Restoring previous wallet connection")
	if err := m.refresh(ctx); err != nil {
		m.log.Warn("Silent restore failed", "error", err)
	}
	return nil
}

// Close releases the provider event subscriptions.
func (m *Manager) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

// refresh rebuilds the wallet snapshot from the provider. An empty account
// set means the wallet revoked access and is treated as a disconnect.
func (m *Manager) refresh(ctx context.Context) error {
	accounts, err := m.wallet.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("reading accounts: %w", err)
	}
	if len(accounts) == 0 {
		return m.Disconnect(ctx)
	}

	addr := accounts[0]

	chainID, err := m.wallet.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("reading chain: %w", err)
	}
	balance, err := m.wallet.BalanceOf(ctx, addr)
	if err != nil {
		return fmt.Errorf("reading balance: %w", err)
	}

	snap := &domain.WalletSnapshot{
		Address:   addr,
		Balance:   balance,
		ChainID:   chainID,
		ChainName: networks.DisplayName(chainID),
	}

	m.mu.Lock()
	m.snapshot = snap
	m.lastErr = ""
	m.setStateLocked(domain.ConnectionConnected, "wallet facts refreshed")
	m.mu.Unlock()

	return nil
}

func (m *Manager) onAccountsChanged(accounts []string) {
	ctx := context.Background()

	if len(accounts) == 0 {
		m.log.Info("Provider reports no accounts, disconnecting")
		_ = m.Disconnect(ctx)
		return
	}

	if err := m.refresh(ctx); err != nil {
		m.log.Warn("Refresh after accounts change failed", "error", err)
		return
	}
	if m.syncer != nil {
		go m.syncer.SyncAddress(ctx, accounts[0])
	}
}

func (m *Manager) onChainChanged(chainID uint64) {
	m.log.Info("Provider chain changed", "chain", chainID)
	if err := m.refresh(context.Background()); err != nil {
		m.log.Warn("Refresh after chain change failed", "error", err)
	}
}

// fail moves the manager into the error state with a user-facing message
// and returns the underlying error to the caller.
func (m *Manager) fail(reason, message string, err error) error {
	metrics.ConnectFailuresTotal.WithLabelValues(reason).Inc()
	m.log.Warn("Wallet connect failed", "reason", reason, "error", err)
	m.failWith(message)
	return err
}

func (m *Manager) failWith(message string) {
	m.mu.Lock()
	m.snapshot = nil
	m.lastErr = message
	m.setStateLocked(domain.ConnectionError, message)
	m.mu.Unlock()
}

// setStateLocked transitions the state machine. Callers must hold m.mu.
func (m *Manager) setStateLocked(to State, reason string) {
	from := m.state
	if from == to {
		return
	}
	if !CanTransition(from, to) {
		m.log.Error("Invalid state transition", "from", from, "to", to, "reason", reason)
		return
	}

	m.state = to
	if m.stateCallback != nil {
		m.stateCallback(NewTransition(from, to, reason))
	}
}

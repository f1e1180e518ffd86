package connect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/walletbridge/internal/core/networks"
	"github.com/vietddude/walletbridge/internal/infra/metrics"
	"github.com/vietddude/walletbridge/internal/infra/provider"
)

var (
	// ErrSwitchDenied is returned when the wallet refused a chain switch
	// and no fallback applied.
	ErrSwitchDenied = errors.New("network switch denied")

	// ErrAddChainFailed is returned when the fallback add-chain request
	// was also refused.
	ErrAddChainFailed = errors.New("add network request failed")
)

// ChainSwitcher is the slice of the wallet bridge the negotiator needs.
type ChainSwitcher interface {
	ChainID(ctx context.Context) (uint64, error)
	SwitchChain(ctx context.Context, chainID uint64) error
	AddChain(ctx context.Context, desc networks.Descriptor) error
}

// Negotiator drives the switch-then-add handshake that moves a wallet onto
// a requested chain. Wallets generally only switch to chains the user has
// already added; the add-chain fallback is the provider convention for
// introducing a new one on demand.
type Negotiator struct {
	wallet ChainSwitcher
	log    *slog.Logger
}

// NewNegotiator creates a negotiator over the given wallet.
func NewNegotiator(wallet ChainSwitcher, log *slog.Logger) *Negotiator {
	if log == nil {
		log = slog.Default()
	}
	return &Negotiator{wallet: wallet, log: log}
}

// EnsureOnChain makes the wallet's current chain equal to target. It is a
// no-op when the wallet is already there.
func (n *Negotiator) EnsureOnChain(ctx context.Context, target uint64) error {
	current, err := n.wallet.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading current chain: %v", ErrSwitchDenied, err)
	}
	if current == target {
		return nil
	}

	n.log.Info("Switching wallet network", "from", current, "to", target)

	err = n.wallet.SwitchChain(ctx, target)
	if err == nil {
		metrics.NetworkSwitchesTotal.WithLabelValues("switched").Inc()
		return nil
	}

	if !provider.IsUnrecognizedChain(err) {
		metrics.NetworkSwitchesTotal.WithLabelValues("denied").Inc()
		return fmt.Errorf("%w: %v", ErrSwitchDenied, err)
	}

	// The wallet has never seen this chain; offer the full descriptor.
	desc, ok := networks.Lookup(target)
	if !ok {
		metrics.NetworkSwitchesTotal.WithLabelValues("add_failed").Inc()
		return fmt.Errorf("%w: chain %d is not in the registry", ErrAddChainFailed, target)
	}

	n.log.Info("Chain unknown to wallet, requesting add", "chain", target, "name", desc.Name)

	if err := n.wallet.AddChain(ctx, desc); err != nil {
		metrics.NetworkSwitchesTotal.WithLabelValues("add_failed").Inc()
		return fmt.Errorf("%w: %v", ErrAddChainFailed, err)
	}

	metrics.NetworkSwitchesTotal.WithLabelValues("added").Inc()
	return nil
}

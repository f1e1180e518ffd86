package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vietddude/walletbridge/internal/core/networks"
	"github.com/vietddude/walletbridge/internal/infra/metrics"
)

// Every chain in the registry uses an 18-decimal native currency.
const nativeDecimals = 18

// Bridge wraps a Transport with typed wallet operations and change events.
// Provider notifications are synthesised by polling the provider and diffing
// against the last observed account set and chain.
type Bridge struct {
	transport    Transport
	pollInterval time.Duration
	log          *slog.Logger

	mu           sync.Mutex
	accountsSubs map[uintptr]func([]string)
	chainSubs    map[uintptr]func(uint64)
	lastAccounts []string
	lastChain    uint64
	seeded       bool
}

// NewBridge creates a bridge over the given transport. A nil transport
// models the provider being absent from the environment.
func NewBridge(transport Transport, pollInterval time.Duration, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		transport:    transport,
		pollInterval: pollInterval,
		log:          log,
		accountsSubs: make(map[uintptr]func([]string)),
		chainSubs:    make(map[uintptr]func(uint64)),
	}
}

// Available reports whether a wallet provider is reachable.
func (b *Bridge) Available(ctx context.Context) bool {
	if b.transport == nil {
		return false
	}
	return b.transport.Ping(ctx) == nil
}

func (b *Bridge) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if b.transport == nil {
		return nil, ErrUnavailable
	}

	start := time.Now()
	raw, err := b.transport.Call(ctx, method, params)
	metrics.ProviderCallLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ProviderCallsTotal.WithLabelValues(method, outcome).Inc()

	return raw, err
}

// classify folds provider application errors into the rejected sentinel
// while keeping the underlying *RPCError in the chain for errors.As.
func classify(err error) error {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return err
}

// RequestAccounts triggers the provider's account-access prompt.
func (b *Bridge) RequestAccounts(ctx context.Context) ([]string, error) {
	raw, err := b.call(ctx, "eth_requestAccounts", nil)
	if err != nil {
		return nil, fmt.Errorf("eth_requestAccounts: %w", classify(err))
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("eth_requestAccounts: decode: %w", err)
	}
	return accounts, nil
}

// Accounts returns the accounts the provider currently authorises, without
// prompting the user.
func (b *Bridge) Accounts(ctx context.Context) ([]string, error) {
	raw, err := b.call(ctx, "eth_accounts", nil)
	if err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", classify(err))
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("eth_accounts: decode: %w", err)
	}
	return accounts, nil
}

// ChainID returns the provider's current chain, decoded from its native hex
// encoding.
func (b *Bridge) ChainID(ctx context.Context) (uint64, error) {
	raw, err := b.call(ctx, "eth_chainId", nil)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", classify(err))
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return 0, fmt.Errorf("eth_chainId: decode: %w", err)
	}
	id, err := hexutil.DecodeUint64(hex)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId: parse %q: %w", hex, err)
	}
	return id, nil
}

// BalanceOf returns the address's native balance as a human-scaled decimal
// string with 4 fractional digits.
func (b *Bridge) BalanceOf(ctx context.Context, address string) (string, error) {
	raw, err := b.call(ctx, "eth_getBalance", []any{address, "latest"})
	if err != nil {
		return "", fmt.Errorf("eth_getBalance: %w", classify(err))
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return "", fmt.Errorf("eth_getBalance: decode: %w", err)
	}
	wei, err := hexutil.DecodeBig(hex)
	if err != nil {
		return "", fmt.Errorf("eth_getBalance: parse %q: %w", hex, err)
	}
	return formatUnits(wei, nativeDecimals), nil
}

// formatUnits converts a raw smallest-unit amount to a decimal string with
// 4 fractional digits.
func formatUnits(amount *big.Int, decimals int) string {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(amount, denom).FloatString(4)
}

// SwitchChain asks the wallet to switch to the given chain. Provider errors
// are returned unclassified so callers can detect the unrecognised-chain
// code and fall back to AddChain.
func (b *Bridge) SwitchChain(ctx context.Context, chainID uint64) error {
	params := []any{map[string]string{"chainId": hexutil.EncodeUint64(chainID)}}
	if _, err := b.call(ctx, "wallet_switchEthereumChain", params); err != nil {
		return fmt.Errorf("wallet_switchEthereumChain: %w", err)
	}
	return nil
}

// addChainParams mirrors the wallet_addEthereumChain parameter object.
type addChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
	NativeCurrency    nativeCurrency `json:"nativeCurrency"`
}

type nativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// AddChain asks the wallet to add the described chain.
func (b *Bridge) AddChain(ctx context.Context, desc networks.Descriptor) error {
	p := addChainParams{
		ChainID:   hexutil.EncodeUint64(desc.ChainID),
		ChainName: desc.Name,
		RPCURLs:   []string{desc.RPCURL},
		NativeCurrency: nativeCurrency{
			Name:     desc.Currency.Name,
			Symbol:   desc.Currency.Symbol,
			Decimals: desc.Currency.Decimals,
		},
	}
	if desc.ExplorerURL != "" {
		p.BlockExplorerURLs = []string{desc.ExplorerURL}
	}
	if _, err := b.call(ctx, "wallet_addEthereumChain", []any{p}); err != nil {
		return fmt.Errorf("wallet_addEthereumChain: %w", err)
	}
	return nil
}

// OnAccountsChanged subscribes to account-set changes. Subscribing the same
// handler twice is a no-op; the returned function removes the subscription.
func (b *Bridge) OnAccountsChanged(fn func([]string)) func() {
	key := reflect.ValueOf(fn).Pointer()

	b.mu.Lock()
	b.accountsSubs[key] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.accountsSubs, key)
		b.mu.Unlock()
	}
}

// OnChainChanged subscribes to chain changes. Same idempotency and
// unsubscribe contract as OnAccountsChanged.
func (b *Bridge) OnChainChanged(fn func(uint64)) func() {
	key := reflect.ValueOf(fn).Pointer()

	b.mu.Lock()
	b.chainSubs[key] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.chainSubs, key)
		b.mu.Unlock()
	}
}

// Watch polls the provider and dispatches change events until ctx is done.
// The first successful poll seeds the baseline without firing events.
func (b *Bridge) Watch(ctx context.Context) {
	if b.transport == nil {
		return
	}

	interval := b.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.poll(ctx)
		}
	}
}

func (b *Bridge) poll(ctx context.Context) {
	accounts, err := b.Accounts(ctx)
	if err != nil {
		b.log.Debug("provider poll: accounts read failed", "error", err)
		return
	}
	chainID, err := b.ChainID(ctx)
	if err != nil {
		b.log.Debug("provider poll: chain read failed", "error", err)
		return
	}

	b.mu.Lock()
	if !b.seeded {
		b.lastAccounts = accounts
		b.lastChain = chainID
		b.seeded = true
		b.mu.Unlock()
		return
	}

	accountsChanged := !equalAccounts(accounts, b.lastAccounts)
	chainChanged := chainID != b.lastChain
	b.lastAccounts = accounts
	b.lastChain = chainID

	var accountsFns []func([]string)
	var chainFns []func(uint64)
	if accountsChanged {
		for _, fn := range b.accountsSubs {
			accountsFns = append(accountsFns, fn)
		}
	}
	if chainChanged {
		for _, fn := range b.chainSubs {
			chainFns = append(chainFns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range accountsFns {
		fn(accounts)
	}
	for _, fn := range chainFns {
		fn(chainID)
	}
}

func equalAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

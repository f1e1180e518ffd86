package connect

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/walletbridge/internal/infra/provider"
)

func TestNegotiator_AlreadyOnTarget(t *testing.T) {
	wallet := newFakeWallet()
	wallet.chainID = 11155111

	n := NewNegotiator(wallet, nil)
	if err := n.EnsureOnChain(context.Background(), 11155111); err != nil {
		t.Fatalf("EnsureOnChain failed: %v", err)
	}
	if len(wallet.switchCalls) != 0 || len(wallet.addCalls) != 0 {
		t.Errorf("expected no provider calls, got switch=%v add=%v", wallet.switchCalls, wallet.addCalls)
	}
}

func TestNegotiator_SwitchAccepted(t *testing.T) {
	wallet := newFakeWallet()
	wallet.chainID = 1

	n := NewNegotiator(wallet, nil)
	if err := n.EnsureOnChain(context.Background(), 11155111); err != nil {
		t.Fatalf("EnsureOnChain failed: %v", err)
	}
	if len(wallet.switchCalls) != 1 || wallet.switchCalls[0] != 11155111 {
		t.Errorf("expected one switch to 11155111, got %v", wallet.switchCalls)
	}
	if len(wallet.addCalls) != 0 {
		t.Errorf("accepted switch must not trigger add, got %v", wallet.addCalls)
	}
}

func TestNegotiator_UnrecognizedChainFallsBackToAdd(t *testing.T) {
	wallet := newFakeWallet()
	wallet.chainID = 1
	wallet.switchErr = &provider.RPCError{Code: provider.CodeUnrecognizedChain, Message: "unrecognized chain"}

	n := NewNegotiator(wallet, nil)
	if err := n.EnsureOnChain(context.Background(), 11155111); err != nil {
		t.Fatalf("EnsureOnChain failed: %v", err)
	}
	if len(wallet.addCalls) != 1 {
		t.Fatalf("expected exactly one add call, got %d", len(wallet.addCalls))
	}
	desc := wallet.addCalls[0]
	if desc.ChainID != 11155111 || desc.Name != "Sepolia Testnet" || desc.RPCURL == "" {
		t.Errorf("add call missing registry metadata: %+v", desc)
	}
}

func TestNegotiator_AddChainRefused(t *testing.T) {
	wallet := newFakeWallet()
	wallet.chainID = 1
	wallet.switchErr = &provider.RPCError{Code: provider.CodeUnrecognizedChain, Message: "unrecognized chain"}
	wallet.addErr = &provider.RPCError{Code: provider.CodeUserRejected, Message: "user rejected"}

	n := NewNegotiator(wallet, nil)
	err := n.EnsureOnChain(context.Background(), 11155111)
	if !errors.Is(err, ErrAddChainFailed) {
		t.Fatalf("expected ErrAddChainFailed, got %v", err)
	}
}

func TestNegotiator_SwitchDenied(t *testing.T) {
	wallet := newFakeWallet()
	wallet.chainID = 1
	wallet.switchErr = &provider.RPCError{Code: provider.CodeUserRejected, Message: "user rejected"}

	n := NewNegotiator(wallet, nil)
	err := n.EnsureOnChain(context.Background(), 11155111)
	if !errors.Is(err, ErrSwitchDenied) {
		t.Fatalf("expected ErrSwitchDenied, got %v", err)
	}
	if len(wallet.addCalls) != 0 {
		t.Errorf("denied switch must not trigger add, got %v", wallet.addCalls)
	}
}

func TestNegotiator_UnknownChainNotInRegistry(t *testing.T) {
	wallet := newFakeWallet()
	wallet.chainID = 1
	wallet.switchErr = &provider.RPCError{Code: provider.CodeUnrecognizedChain, Message: "unrecognized chain"}

	n := NewNegotiator(wallet, nil)
	err := n.EnsureOnChain(context.Background(), 424242)
	if !errors.Is(err, ErrAddChainFailed) {
		t.Fatalf("expected ErrAddChainFailed for unregistered chain, got %v", err)
	}
	if len(wallet.addCalls) != 0 {
		t.Errorf("no descriptor to offer, add must not be called, got %v", wallet.addCalls)
	}
}

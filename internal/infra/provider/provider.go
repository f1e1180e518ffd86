// Package provider adapts an external EIP-1193-style wallet provider behind
// a small capability surface.
//
// This package contains:
//   - Transport interface: raw request access to the provider
//   - HTTPTransport: JSON-RPC over HTTP implementation
//   - Bridge: typed wallet operations, error mapping, and change events
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when no wallet provider is reachable.
	ErrUnavailable = errors.New("wallet provider unavailable")

	// ErrRejected is returned when the provider (or the user behind it)
	// declined a request.
	ErrRejected = errors.New("wallet provider rejected request")
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
)

// RPCError is a JSON-RPC application-level error returned by the provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// IsUnrecognizedChain reports whether err is the provider telling us the
// requested chain has not been added to the wallet yet.
func IsUnrecognizedChain(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == CodeUnrecognizedChain
}

// Transport is the raw request channel to a wallet provider.
type Transport interface {
	// Call performs a single provider request and returns the raw result.
	// Application-level provider errors are returned as *RPCError.
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)

	// Ping checks whether the provider is reachable.
	Ping(ctx context.Context) error
}

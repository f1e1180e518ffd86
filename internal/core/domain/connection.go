package domain

// ConnectionState describes the wallet connection lifecycle.
type ConnectionState string

const (
	ConnectionDisconnected ConnectionState = "disconnected"
	ConnectionConnecting   ConnectionState = "connecting"
	ConnectionConnected    ConnectionState = "connected"
	ConnectionError        ConnectionState = "error"
)

// WalletSnapshot captures the facts about the connected wallet at one point
// in time. It is replaced wholesale on every refresh and never mutated in
// place; a nil snapshot means no wallet is connected.
type WalletSnapshot struct {
	Address   string `json:"address"`
	Balance   string `json:"balance"` // native units, fixed to 4 fractional digits
	ChainID   uint64 `json:"chainId"`
	ChainName string `json:"chainName"`
}

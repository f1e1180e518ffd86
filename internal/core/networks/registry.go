// Package networks holds the static registry of chains the application knows
// how to describe to a wallet provider. All chain parameters are hardcoded
// here; the only configurable part is which registered network is the target.
package networks

import (
	"fmt"
	"strings"
)

// Currency describes a chain's native currency.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Descriptor holds the parameters needed to describe a network to a wallet
// provider (wallet_addEthereumChain) and to the UI.
type Descriptor struct {
	ChainID     uint64   `json:"chainId"`
	Name        string   `json:"name"`
	RPCURL      string   `json:"rpcUrl"`
	ExplorerURL string   `json:"explorerUrl,omitempty"`
	Currency    Currency `json:"nativeCurrency"`
}

// DefaultNetwork is used when the configured network name is empty or not
// recognised.
const DefaultNetwork = "sepolia"

var registry = map[uint64]Descriptor{
	1: {
		ChainID:     1,
		Name:        "Ethereum Mainnet",
		RPCURL:      "https://eth.llamarpc.com",
		ExplorerURL: "https://etherscan.io",
		Currency:    Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
	},
	5: {
		ChainID:     5,
		Name:        "Goerli Testnet",
		RPCURL:      "https://rpc.ankr.com/eth_goerli",
		ExplorerURL: "https://goerli.etherscan.io",
		Currency:    Currency{Name: "Goerli Ether", Symbol: "ETH", Decimals: 18},
	},
	11155111: {
		ChainID:     11155111,
		Name:        "Sepolia Testnet",
		RPCURL:      "https://rpc.sepolia.org",
		ExplorerURL: "https://sepolia.etherscan.io",
		Currency:    Currency{Name: "Sepolia Ether", Symbol: "ETH", Decimals: 18},
	},
	1337: {
		ChainID:  1337,
		Name:     "Localhost 8545",
		RPCURL:   "http://127.0.0.1:8545",
		Currency: Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
	},
}

var nameToChainID = map[string]uint64{
	"mainnet":   1,
	"goerli":    5,
	"sepolia":   11155111,
	"localhost": 1337,
}

// Lookup returns the descriptor for a chain ID.
func Lookup(chainID uint64) (Descriptor, bool) {
	d, ok := registry[chainID]
	return d, ok
}

// DisplayName returns the human-readable name for a chain ID, falling back
// to "Chain <id>" for chains not in the registry.
func DisplayName(chainID uint64) string {
	if d, ok := registry[chainID]; ok {
		return d.Name
	}
	return fmt.Sprintf("Chain %d", chainID)
}

// ResolveName maps a network name to its chain ID, case-insensitively.
// Unset or unrecognised names resolve to DefaultNetwork.
func ResolveName(name string) uint64 {
	if id, ok := nameToChainID[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return nameToChainID[DefaultNetwork]
}

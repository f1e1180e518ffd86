package networks

import "testing"

func TestLookup(t *testing.T) {
	d, ok := Lookup(11155111)
	if !ok {
		t.Fatal("expected sepolia to be registered")
	}
	if d.Name != "Sepolia Testnet" {
		t.Errorf("unexpected name %q", d.Name)
	}
	if d.Currency.Decimals != 18 {
		t.Errorf("expected 18 decimals, got %d", d.Currency.Decimals)
	}

	if _, ok := Lookup(424242); ok {
		t.Error("expected unknown chain to be absent")
	}
}

func TestDisplayName_Fallback(t *testing.T) {
	tests := []struct {
		chainID uint64
		want    string
	}{
		{1, "Ethereum Mainnet"},
		{1337, "Localhost 8545"},
		{424242, "Chain 424242"},
		{0, "Chain 0"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.chainID); got != tt.want {
			t.Errorf("DisplayName(%d) = %q, want %q", tt.chainID, got, tt.want)
		}
	}
}

func TestResolveName(t *testing.T) {
	tests := []struct {
		name string
		want uint64
	}{
		{"mainnet", 1},
		{"Mainnet", 1},
		{"SEPOLIA", 11155111},
		{"goerli", 5},
		{"localhost", 1337},
		{" sepolia ", 11155111},
		{"", 11155111},
		{"unknown-net", 11155111},
	}

	for _, tt := range tests {
		if got := ResolveName(tt.name); got != tt.want {
			t.Errorf("ResolveName(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

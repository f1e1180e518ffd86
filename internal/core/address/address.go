// Package address maps the active payment mode to the payout-address format
// the UI should validate against.
package address

import "regexp"

// FormatDescriptor describes the expected payout-address format for a
// payment mode.
type FormatDescriptor struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Pattern     string `json:"pattern"`

	re *regexp.Regexp
}

const (
	// Base58 alphabet without the visually ambiguous 0, O, I and l.
	bitcoinPattern  = `^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`
	ethereumPattern = `^0x[0-9a-fA-F]{40}$`
)

var (
	bitcoinRe  = regexp.MustCompile(bitcoinPattern)
	ethereumRe = regexp.MustCompile(ethereumPattern)
)

// DescribeFormat returns the address format for the given payment mode.
// It is a pure function of the flag and is evaluated on every call, so a
// mode flip mid-session can never serve a stale descriptor.
func DescribeFormat(blockchainMode bool) FormatDescriptor {
	if blockchainMode {
		return FormatDescriptor{
			Label:       "Ethereum",
			Description: "0x followed by 40 hexadecimal characters",
			Example:     "0x742d35Cc6634C0532925a3b844Bc9e7595f1c123",
			Pattern:     ethereumPattern,
			re:          ethereumRe,
		}
	}
	return FormatDescriptor{
		Label:       "Bitcoin-style",
		Description: "starts with 1 or 3, followed by 25-34 base-58 characters",
		Example:     "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		Pattern:     bitcoinPattern,
		re:          bitcoinRe,
	}
}

// Valid reports whether addr matches the descriptor's pattern.
func (d FormatDescriptor) Valid(addr string) bool {
	return d.re.MatchString(addr)
}

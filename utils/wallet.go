// utils/wallet.go
package utils

import (
	"regexp"

	"github.com/mr-tron/base58"
)

// Solana addresses are base58 and decode to a 32-byte ed25519 public key.
// The length range 32-44 covers every valid encoding of 32 bytes.
var solanaAddressPattern = regexp.MustCompile(`\b[1-9A-HJ-NP-Za-km-z]{32,44}\b`)

// ExtractSolanaAddresses scans free text for Solana wallet addresses and
// returns the valid ones, deduplicated, in order of first appearance.
// A candidate is valid only if it base58-decodes to exactly 32 bytes.
func ExtractSolanaAddresses(text string) []string {
	candidates := solanaAddressPattern.FindAllString(text, -1)
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(candidates))
	var addresses []string
	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}
		decoded, err := base58.Decode(candidate)
		if err != nil || len(decoded) != 32 {
			continue
		}
		seen[candidate] = struct{}{}
		addresses = append(addresses, candidate)
	}
	return addresses
}

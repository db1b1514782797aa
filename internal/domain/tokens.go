package domain

// SupportedToken describes one entry of the ERC-20 allow-list. The system
// only pulls back a small, explicitly configured token set.
type SupportedToken struct {
	ContractAddress string `mapstructure:"contract_address"`
	Symbol          string `mapstructure:"symbol"`
	Name            string `mapstructure:"name"`
	Decimals        uint8  `mapstructure:"decimals"`
}

// TokenRegistry is the fixed allow-list of supported ERC-20 tokens, keyed by
// normalized contract address
type TokenRegistry struct {
	byAddress map[string]SupportedToken
	ordered   []SupportedToken
}

// NewTokenRegistry builds a registry from configured tokens
func NewTokenRegistry(tokens []SupportedToken) *TokenRegistry {
	r := &TokenRegistry{byAddress: make(map[string]SupportedToken, len(tokens))}
	for _, t := range tokens {
		t.ContractAddress = NormalizeAddress(t.ContractAddress)
		if _, dup := r.byAddress[t.ContractAddress]; dup {
			continue
		}
		r.byAddress[t.ContractAddress] = t
		r.ordered = append(r.ordered, t)
	}
	return r
}

// Lookup returns the allow-list entry for a contract address
func (r *TokenRegistry) Lookup(contractAddress string) (SupportedToken, bool) {
	t, ok := r.byAddress[NormalizeAddress(contractAddress)]
	return t, ok
}

// Supported reports whether the contract address is in the allow-list
func (r *TokenRegistry) Supported(contractAddress string) bool {
	_, ok := r.Lookup(contractAddress)
	return ok
}

// All returns the allow-list in configuration order
func (r *TokenRegistry) All() []SupportedToken {
	return r.ordered
}

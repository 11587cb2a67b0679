package chain

import (
	"sort"
	"strings"
)

const (
	MainnetChainID int64 = 1
	SepoliaChainID int64 = 11155111
)

// networks is the static registry keyed by short network name
var networks = map[string]Network{
	"mainnet": {
		Key:      "mainnet",
		Name:     "Ethereum Mainnet",
		ChainID:  MainnetChainID,
		RPCURL:   "https://eth.llamarpc.com",
		Explorer: "https://etherscan.io",
		Symbol:   "ETH",
		Decimals: 18,
	},
	"sepolia": {
		Key:      "sepolia",
		Name:     "Sepolia Testnet",
		ChainID:  SepoliaChainID,
		RPCURL:   "https://sepolia.gateway.tenderly.co",
		Explorer: "https://sepolia.etherscan.io",
		Symbol:   "ETH",
		Decimals: 18,
	},
}

// GetChain looks a network up by chain id
func GetChain(chainID int64) (Network, bool) {
	for _, network := range networks {
		if network.ChainID == chainID {
			return network, true
		}
	}
	return Network{}, false
}

// GetByName looks a network up by its short registry key (case insensitive)
func GetByName(name string) (Network, bool) {
	network, ok := networks[strings.ToLower(strings.TrimSpace(name))]
	return network, ok
}

// IsSupportedChainID reports whether chainID has a registry entry
func IsSupportedChainID(chainID int64) bool {
	_, ok := GetChain(chainID)
	return ok
}

// ListChains returns every registered network ordered by chain id
func ListChains() []Network {
	result := make([]Network, 0, len(networks))
	for _, network := range networks {
		result = append(result, network)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ChainID < result[j].ChainID
	})
	return result
}

// SupportedChainIDs returns the chain ids of all registered networks, ascending
func SupportedChainIDs() []int64 {
	list := ListChains()
	ids := make([]int64, 0, len(list))
	for _, network := range list {
		ids = append(ids, network.ChainID)
	}
	return ids
}

// NetworkNames returns the registry keys, sorted
func NetworkNames() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseRPCURLs splits a comma separated RPC URL list, dropping blanks
func ParseRPCURLs(rpcURL string) []string {
	if rpcURL == "" {
		return nil
	}

	urls := strings.Split(rpcURL, ",")
	result := make([]string, 0, len(urls))

	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url != "" {
			result = append(result, url)
		}
	}

	return result
}

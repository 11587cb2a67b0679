package chain

// Network describes a known EVM network
type Network struct {
	Key      string `json:"key"`      // Short registry key ("mainnet", "sepolia")
	Name     string `json:"name"`     // Display name
	ChainID  int64  `json:"chainId"`  // EIP-155 chain id
	RPCURL   string `json:"rpcUrl"`   // Canonical JSON-RPC endpoint
	Explorer string `json:"explorer"` // Block explorer base URL
	Symbol   string `json:"symbol"`   // Native asset symbol
	Decimals int    `json:"decimals"` // Native asset decimals
}

// TxURL returns the explorer link for a transaction hash
func (n Network) TxURL(txHash string) string {
	return n.Explorer + "/tx/" + txHash
}

// AddressURL returns the explorer link for an address
func (n Network) AddressURL(address string) string {
	return n.Explorer + "/address/" + address
}

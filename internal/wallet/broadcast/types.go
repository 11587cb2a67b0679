package broadcast

import (
	"encoding/json"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	methodSendRawTransaction    = "eth_sendRawTransaction"
	methodGetTransactionReceipt = "eth_getTransactionReceipt"
)

// Provider is a JSON-RPC endpoint in the broadcast pool. Lower Priority is
// tried first.
type Provider struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Priority  int       `json:"priority"`
	IsHealthy bool      `json:"isHealthy"`
	LastError time.Time `json:"lastError,omitempty"` // zero until the first failure
	LastCode  string    `json:"lastCode,omitempty"`
}

// DefaultProviders returns the public mainnet endpoints used when no pool is
// configured
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "BlastAPI", URL: "https://eth-mainnet.public.blastapi.io", Priority: 1, IsHealthy: true},
		{Name: "Cloudflare", URL: "https://cloudflare-eth.com", Priority: 2, IsHealthy: true},
		{Name: "Ankr", URL: "https://rpc.ankr.com/eth", Priority: 3, IsHealthy: true},
	}
}

// Receipt is a transaction receipt as returned by eth_getTransactionReceipt.
// Quantities stay hex encoded, Raw keeps the full provider response.
type Receipt struct {
	TransactionHash   string  `json:"transactionHash"`
	BlockHash         string  `json:"blockHash"`
	BlockNumber       string  `json:"blockNumber"`
	From              string  `json:"from"`
	To                *string `json:"to"`
	ContractAddress   *string `json:"contractAddress"`
	GasUsed           string  `json:"gasUsed"`
	CumulativeGasUsed string  `json:"cumulativeGasUsed"`
	EffectiveGasPrice string  `json:"effectiveGasPrice,omitempty"`
	Status            string  `json:"status"`

	Raw json.RawMessage `json:"-"`
}

// Succeeded reports whether the receipt has status 0x1
func (r *Receipt) Succeeded() bool {
	return r.Status == "0x1"
}

// Recorder receives broadcast observations, see metrics.Service
type Recorder interface {
	ObserveAttempt(provider string, outcome string, code string)
	SetProviderHealth(provider string, healthy bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveAttempt(string, string, string) {}
func (noopRecorder) SetProviderHealth(string, bool)        {}

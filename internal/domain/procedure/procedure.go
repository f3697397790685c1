// Package procedure defines the per-provider top procedure (DRG) shares.
package procedure

// Share is one ranked procedure for a provider. A provider usually has five,
// but nothing relies on that count.
type Share struct {
	ProviderKey string   `json:"provider_id"`
	Rank        int      `json:"rank"`
	Code        string   `json:"drg_code"`
	Description string   `json:"drg_desc"`
	Share       *float64 `json:"share"`
	AvgPayment  *float64 `json:"avg_medicare_payment"`
}

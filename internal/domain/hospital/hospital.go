// Package hospital defines the per-hospital record.
package hospital

// Record is one hospital. CountyKey may reference a county that is not in
// the loaded county set; consumers treat that as "no county", never an error.
type Record struct {
	ProviderKey string   `json:"provider_id"`
	Name        string   `json:"name"`
	RegionGroup string   `json:"state"`
	CountyKey   string   `json:"fips"`
	Stars       *float64 `json:"stars"`
	Beds        *float64 `json:"beds"`
	Ownership   string   `json:"ownership,omitempty"`

	// Market context, carried through but not used by the engine.
	HHI         *float64 `json:"hhi"`
	WAvgPayment *float64 `json:"wavg_payment"`
	MedShare    *float64 `json:"med_share"`
	SurgShare   *float64 `json:"surg_share"`
}

// HasOwnership reports whether the ownership category is known.
func (r Record) HasOwnership() bool { return r.Ownership != "" }

package view

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/carelens/internal/domain/numeric"
	"github.com/kailas-cloud/carelens/internal/domain/procedure"
)

const (
	proceduresSubtitle = "Top 5 DRGs by discharge share"
	proceduresHint     = "Pick a hospital (scatter) to see Top-5 DRGs."
)

// ProcedureBar is one ranked procedure share.
type ProcedureBar struct {
	Rank        int      `json:"rank"`
	Code        string   `json:"drg_code"`
	Description string   `json:"drg_desc"`
	Share       *float64 `json:"share"`
	AvgPayment  *float64 `json:"avg_medicare_payment"`
}

// ProcedureView is the per-hospital procedure-share view-model.
type ProcedureView struct {
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	ProviderKey string         `json:"provider_id,omitempty"`
	Title       string         `json:"title,omitempty"`
	Subtitle    string         `json:"subtitle,omitempty"`
	MaxShare    float64        `json:"maxShare"`
	Bars        []ProcedureBar `json:"bars"`
}

// BuildProcedures returns the selected provider's shares ordered by rank.
// No selected provider yields StatusNoSelection; a provider without share
// rows yields StatusNoData.
func BuildProcedures(in Input) ProcedureView {
	pid := in.State.Selection.ProviderKey
	if pid == "" {
		return ProcedureView{Status: StatusNoSelection, Message: proceduresHint}
	}

	v := ProcedureView{
		ProviderKey: pid,
		Title:       pid,
		Subtitle:    proceduresSubtitle,
	}
	if h, ok := in.Index.Hospital(pid); ok && h.Name != "" {
		v.Title = h.Name
	}

	shares := in.Index.Shares(pid)
	if len(shares) == 0 {
		v.Status = StatusNoData
		v.Message = proceduresHint
		return v
	}

	slices.SortStableFunc(shares, func(a, b procedure.Share) int { return cmp.Compare(a.Rank, b.Rank) })

	v.Status = StatusReady
	v.Bars = make([]ProcedureBar, len(shares))
	for i, s := range shares {
		v.Bars[i] = ProcedureBar{
			Rank:        s.Rank,
			Code:        s.Code,
			Description: s.Description,
			Share:       s.Share,
			AvgPayment:  s.AvgPayment,
		}
		v.MaxShare = max(v.MaxShare, numeric.Or(s.Share, 0))
	}
	return v
}

// Package ingest turns raw tabular rows into typed dataset records.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/carelens/internal/domain"
	"github.com/kailas-cloud/carelens/internal/domain/county"
	"github.com/kailas-cloud/carelens/internal/domain/geo"
	"github.com/kailas-cloud/carelens/internal/domain/hospital"
	"github.com/kailas-cloud/carelens/internal/domain/key"
	"github.com/kailas-cloud/carelens/internal/domain/numeric"
	"github.com/kailas-cloud/carelens/internal/domain/procedure"
)

// Table is a raw row collection: the header and one column->value map per row.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Has reports whether the header contains the column.
func (t Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Sources are the raw inputs of one dashboard load.
type Sources struct {
	Counties   Table
	Hospitals  Table
	Procedures Table
	Geography  []geo.Feature
}

// Dataset is the typed result of ingestion.
type Dataset struct {
	Counties   []county.Record
	Hospitals  []hospital.Record
	Procedures []procedure.Share
	Features   []geo.Feature
}

// Source column names.
const (
	colFips          = "fips"
	colState         = "state"
	colCountyName    = "county_name"
	colSpend         = "spend"
	colQuality       = "quality_bedweighted"
	colZSpend        = "z_spend"
	colZQuality      = "z_quality"
	colBedsSum       = "beds_sum"
	colDischargesSum = "discharges_sum"

	colProviderID = "provider_id"
	colName       = "name"
	colStars      = "stars"
	colBeds       = "beds"
	colOwnership  = "ownership"
	colHHI        = "hhi"
	colWAvgPay    = "wavg_payment"
	colMedShare   = "med_share"
	colSurgShare  = "surg_share"

	colRank       = "rank"
	colDRGCode    = "drg_code"
	colDRGDesc    = "drg_desc"
	colShare      = "share"
	colAvgPayment = "avg_medicare_payment"
)

// Ingest converts all three tables. A table missing its key column fails
// the whole load with a LoadError naming that source.
func Ingest(src Sources) (Dataset, error) {
	counties, err := Counties(src.Counties)
	if err != nil {
		return Dataset{}, err
	}
	hospitals, err := Hospitals(src.Hospitals)
	if err != nil {
		return Dataset{}, err
	}
	shares, err := Procedures(src.Procedures)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{
		Counties:   counties,
		Hospitals:  hospitals,
		Procedures: shares,
		Features:   src.Geography,
	}, nil
}

// Counties converts county rows.
func Counties(t Table) ([]county.Record, error) {
	if err := require(t, domain.SourceCounties, colFips, colState); err != nil {
		return nil, err
	}
	out := make([]county.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, county.Record{
			Key:           key.County(row[colFips]),
			RegionGroup:   strings.TrimSpace(row[colState]),
			Name:          row[colCountyName],
			Spend:         numeric.Parse(row[colSpend]),
			Quality:       numeric.Parse(row[colQuality]),
			ZSpend:        numeric.Parse(row[colZSpend]),
			ZQuality:      numeric.Parse(row[colZQuality]),
			BedsSum:       numeric.Parse(row[colBedsSum]),
			DischargesSum: numeric.Parse(row[colDischargesSum]),
		})
	}
	return out, nil
}

// Hospitals converts hospital rows.
func Hospitals(t Table) ([]hospital.Record, error) {
	if err := require(t, domain.SourceHospitals, colProviderID, colFips); err != nil {
		return nil, err
	}
	out := make([]hospital.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, hospital.Record{
			ProviderKey: key.Provider(row[colProviderID]),
			Name:        row[colName],
			RegionGroup: strings.TrimSpace(row[colState]),
			CountyKey:   key.County(row[colFips]),
			Stars:       numeric.Parse(row[colStars]),
			Beds:        numeric.Parse(row[colBeds]),
			Ownership:   row[colOwnership],
			HHI:         numeric.Parse(row[colHHI]),
			WAvgPayment: numeric.Parse(row[colWAvgPay]),
			MedShare:    numeric.Parse(row[colMedShare]),
			SurgShare:   numeric.Parse(row[colSurgShare]),
		})
	}
	return out, nil
}

// Procedures converts procedure-share rows. An unparseable rank becomes 0.
func Procedures(t Table) ([]procedure.Share, error) {
	if err := require(t, domain.SourceProcedures, colProviderID, colRank); err != nil {
		return nil, err
	}
	out := make([]procedure.Share, 0, len(t.Rows))
	for _, row := range t.Rows {
		rank, _ := strconv.Atoi(strings.TrimSpace(row[colRank]))
		out = append(out, procedure.Share{
			ProviderKey: key.Provider(row[colProviderID]),
			Rank:        rank,
			Code:        row[colDRGCode],
			Description: row[colDRGDesc],
			Share:       numeric.Parse(row[colShare]),
			AvgPayment:  numeric.Parse(row[colAvgPayment]),
		})
	}
	return out, nil
}

func require(t Table, source string, columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return domain.NewLoadError(source, fmt.Errorf("missing column %q", c))
		}
	}
	return nil
}

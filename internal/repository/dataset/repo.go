// Package dataset reads the dashboard sources from a file system.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/carelens/internal/domain"
	"github.com/kailas-cloud/carelens/internal/domain/geo"
	"github.com/kailas-cloud/carelens/internal/usecase/ingest"
)

// Files names the four source files inside the file system.
type Files struct {
	Counties   string
	Hospitals  string
	Procedures string
	Geography  string
}

// DefaultFiles are the file names of the published dataset.
func DefaultFiles() Files {
	return Files{
		Counties:   "counties_2023.csv",
		Hospitals:  "hospitals_2025.csv",
		Procedures: "hospital_drg_top5.csv",
		Geography:  "counties_geo_region.json",
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Repo implements usecase/dashboard.Loader over an fs.FS.
type Repo struct {
	fsys   fs.FS
	files  Files
	logger *zap.Logger
}

// New creates a dataset repository.
func New(fsys fs.FS, files Files, logger *zap.Logger) *Repo {
	return &Repo{fsys: fsys, files: files, logger: logger}
}

// Load reads all sources concurrently. The first failure cancels the rest
// and is returned as a LoadError naming its source.
func (r *Repo) Load(ctx context.Context) (ingest.Sources, error) {
	var src ingest.Sources
	g, ctx := errgroup.WithContext(ctx)

	tables := []struct {
		source string
		name   string
		dst    *ingest.Table
	}{
		{domain.SourceCounties, r.files.Counties, &src.Counties},
		{domain.SourceHospitals, r.files.Hospitals, &src.Hospitals},
		{domain.SourceProcedures, r.files.Procedures, &src.Procedures},
	}
	for _, t := range tables {
		g.Go(func() error {
			tbl, err := r.readTable(ctx, t.name)
			if err != nil {
				return domain.NewLoadError(t.source, err)
			}
			*t.dst = tbl
			return nil
		})
	}

	g.Go(func() error {
		features, err := r.readGeography(ctx)
		if err != nil {
			return domain.NewLoadError(domain.SourceGeography, err)
		}
		src.Geography = features
		return nil
	})

	if err := g.Wait(); err != nil {
		return ingest.Sources{}, err //nolint:wrapcheck // already a LoadError
	}

	r.logger.Debug("Dataset sources read",
		zap.Int("counties", len(src.Counties.Rows)),
		zap.Int("hospitals", len(src.Hospitals.Rows)),
		zap.Int("procedures", len(src.Procedures.Rows)),
		zap.Int("features", len(src.Geography)),
	)
	return src, nil
}

func (r *Repo) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (r *Repo) readTable(ctx context.Context, name string) (ingest.Table, error) {
	data, err := r.read(ctx, name)
	if err != nil {
		return ingest.Table{}, err
	}
	tbl, err := ParseCSV(data)
	if err != nil {
		return ingest.Table{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return tbl, nil
}

func (r *Repo) readGeography(ctx context.Context) ([]geo.Feature, error) {
	data, err := r.read(ctx, r.files.Geography)
	if err != nil {
		return nil, err
	}
	features, err := geo.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.files.Geography, err)
	}
	return features, nil
}

// ParseCSV reads a header row and keeps every field as raw text.
// Short rows leave the trailing columns absent; long rows drop the extras.
func ParseCSV(data []byte) (ingest.Table, error) {
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ingest.Table{}, errors.New("empty file")
	}
	if err != nil {
		return ingest.Table{}, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	tbl := ingest.Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ingest.Table{}, fmt.Errorf("read row %d: %w", len(tbl.Rows)+1, err)
		}
		row := make(map[string]string, len(header))
		for i, v := range rec {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

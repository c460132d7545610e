// Package reportfile reads and writes pending reports as YAML so unsent work
// survives a restart or moves between machines.
package reportfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Version is the current file format version.
const Version = 1

// ErrUnsupportedVersion is returned for files written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported report file version")

// document is the on-disk layout.
type document struct {
	ExportedAt time.Time `yaml:"exportedAt,omitempty"`
	Reports    []entry   `yaml:"reports"`
	Version    int       `yaml:"version"`
}

// entry is one pending report.
type entry struct {
	ID          string  `yaml:"id,omitempty"`
	Registry    string  `yaml:"registry,omitempty"`
	Description string  `yaml:"description"`
	Lat         float64 `yaml:"lat"`
	Lon         float64 `yaml:"lon"`
}

// Encode writes the pending reports among reports to w. Confirmed reports are skipped.
func Encode(w io.Writer, reports []*domain.Report, exportedAt time.Time) (int, error) {
	doc := document{Version: Version, ExportedAt: exportedAt.UTC()}
	for _, r := range reports {
		if r.Kind() != domain.KindPending {
			continue
		}
		ll := r.Position()
		doc.Reports = append(doc.Reports, entry{
			ID:          r.ID(),
			Registry:    r.Registry(),
			Description: r.Description(),
			Lat:         ll.Lat,
			Lon:         ll.Lon,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encode reports: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("encode reports: %w", err)
	}
	return len(doc.Reports), nil
}

// Decode reads pending reports from data.
func Decode(data []byte) ([]*domain.Report, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	reports := make([]*domain.Report, 0, len(doc.Reports))
	for i, e := range doc.Reports {
		ll := domain.LatLon{Lat: e.Lat, Lon: e.Lon}
		if ll.Lat < -90 || ll.Lat > 90 || ll.Lon < -180 || ll.Lon > 180 {
			return nil, fmt.Errorf("report %d: position %s out of range", i+1, ll)
		}
		reports = append(reports, domain.RestorePendingReport(e.ID, ll, e.Description))
	}
	return reports, nil
}

// Read decodes the file at path.
func Read(path string) ([]*domain.Report, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	return Decode(data)
}

// Write encodes the pending reports into the file at path, creating parent directories.
func Write(path string, reports []*domain.Report, exportedAt time.Time) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create report file: %w", err)
	}
	n, err := Encode(f, reports, exportedAt)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close report file: %w", closeErr)
	}
	return n, err
}

// Archive implements domain.ReportArchive on top of Read and Write.
type Archive struct{}

// Ensure Archive implements domain.ReportArchive.
var _ domain.ReportArchive = Archive{}

// Read implements domain.ReportArchive.
func (Archive) Read(path string) ([]*domain.Report, error) {
	return Read(path)
}

// Write implements domain.ReportArchive.
func (Archive) Write(path string, reports []*domain.Report, at time.Time) (int, error) {
	return Write(path, reports, at)
}

package pdok

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/infra/rdnew"
)

// Wire constants.
const (
	// Source is the application identifier sent with new reports.
	Source = "OpenStreetMap (JOSM plugin)"

	// CollectionName names the feature collection of a submitted report.
	CollectionName = "TerugmeldingGeneriek"

	// CRS4326 is the CRS of submitted coordinates.
	CRS4326 = "http://www.opengis.net/def/crs/EPSG/0/4326"
)

const epsgWGS84 = 4326

var epsgPattern = regexp.MustCompile(`(?i)EPSG.*?(\d+)$`)

// parseEPSG extracts the EPSG code from names such as "EPSG:28992",
// "urn:ogc:def:crs:EPSG::28992" or an OGC CRS URI.
func parseEPSG(name string) (int, error) {
	m := epsgPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedCRS, name)
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedCRS, name)
	}
	return code, nil
}

// transformFor returns the conversion from the collection's CRS to WGS84.
// A collection without a crs member is WGS84.
func transformFor(fc *geojson.FeatureCollection) (func(orb.Point) domain.LatLon, error) {
	code := epsgWGS84
	if raw, ok := fc.ExtraMembers["crs"]; ok {
		crs, _ := raw.(map[string]interface{})
		props, _ := crs["properties"].(map[string]interface{})
		name, _ := props["name"].(string)
		c, err := parseEPSG(name)
		if err != nil {
			return nil, err
		}
		code = c
	}

	switch code {
	case epsgWGS84:
		return func(p orb.Point) domain.LatLon { return domain.LatLon{Lat: p.Lat(), Lon: p.Lon()} }, nil
	case rdnew.EPSG:
		return func(p orb.Point) domain.LatLon { return rdnew.ToWGS84(p.X(), p.Y()) }, nil
	}
	return nil, fmt.Errorf("%w: EPSG:%d", domain.ErrUnsupportedCRS, code)
}

// DecodeReports parses a feature collection of confirmed reports.
// Features without a point geometry, registration number or registration
// time are skipped.
func DecodeReports(data []byte) ([]*domain.Report, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	toLatLon, err := transformFor(fc)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.Report, 0, len(fc.Features))
	for _, f := range fc.Features {
		if r := decodeReport(f, toLatLon); r != nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func decodeReport(f *geojson.Feature, toLatLon func(orb.Point) domain.LatLon) *domain.Report {
	if f == nil {
		return nil
	}
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return nil
	}
	p := f.Properties
	number := p.MustString("meldingsNummerVolledig", "")
	reportedAt := parseTime(p.MustString("tijdstipRegistratie", ""))
	if number == "" || reportedAt.IsZero() {
		return nil
	}

	details := domain.Confirmed{
		ReportedAt:           reportedAt,
		StatusModifiedAt:     parseTime(p.MustString("tijdstipStatusWijziging", "")),
		ModifiedAt:           parseTime(p.MustString("tijdstipWijziging", "")),
		RegistrationNumber:   number,
		Source:               p.MustString("bron", ""),
		MaintainerCode:       p.MustString("bronhoudercode", ""),
		MaintainerName:       p.MustString("bronhoudernaam", ""),
		LocationLink:         p.MustString("locatieLink", ""),
		Product:              p.MustString("product", ""),
		Status:               p.MustString("status", ""),
		Explanation:          p.MustString("toelichting", ""),
		ObjectID:             p.MustString("objectId", ""),
		ObjectType:           p.MustString("objectType", ""),
		StatusCode:           domain.ParseWireStatus(p.MustString("statusCode", "")),
		RegistrationSequence: int64(p.MustFloat64("meldingsNummer", 0)),
	}
	return domain.NewConfirmedReport(
		toLatLon(pt),
		p.MustString("basisregistratie", ""),
		p.MustString("omschrijving", ""),
		details,
	)
}

// Layouts seen in registry timestamps.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000000Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

// parseTime returns the zero time for empty or unknown timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// EncodeNewReport encodes a pending report as a single-feature collection.
func EncodeNewReport(r *domain.Report, user domain.UserConfig) ([]byte, error) {
	if !r.Kind().Uploadable() {
		return nil, domain.ErrReportNotEditable
	}
	ll := r.Position()
	f := geojson.NewFeature(orb.Point{ll.Lon, ll.Lat})
	f.Properties["registratie"] = r.Registry()
	f.Properties["bron"] = Source
	f.Properties["omschrijving"] = r.Description()
	if user.Email != "" {
		f.Properties["email"] = user.Email
	}
	if user.Organisation != "" {
		f.Properties["Organisatie"] = user.Organisation
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	fc.ExtraMembers = geojson.Properties{
		"name": CollectionName,
		"crs": map[string]interface{}{
			"type":       "name",
			"properties": map[string]interface{}{"name": CRS4326},
		},
	}
	return fc.MarshalJSON()
}

// submitResponse is the 200 body of a submission.
type submitResponse struct {
	Number string `json:"meldingsNummerVolledig"`
}

// errorResponse is the 400/401 body of a rejected submission.
type errorResponse struct {
	Message string   `json:"melding"`
	Reasons []string `json:"reden"`
}

func decodeSubmitResponse(body []byte) (string, error) {
	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if resp.Number == "" {
		return "", fmt.Errorf("%w: missing meldingsNummerVolledig", domain.ErrMalformedResponse)
	}
	return resp.Number, nil
}

func decodeErrorResponse(body []byte) errorResponse {
	var resp errorResponse
	_ = json.Unmarshal(body, &resp)
	return resp
}

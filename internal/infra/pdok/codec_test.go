package pdok

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
)

const rdCollection = `{
  "type": "FeatureCollection",
  "crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::28992"}},
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [155000, 463000]},
      "properties": {
        "basisregistratie": "BAG",
        "bron": "BAG viewer",
        "bronhoudercode": "0307",
        "bronhoudernaam": "Amersfoort",
        "locatieLink": "https://example.org/melding/1",
        "meldingsNummer": 42,
        "meldingsNummerVolledig": "TMS-2024-0000042",
        "omschrijving": "building missing",
        "status": "In onderzoek",
        "statusCode": "IN_ONDERZOEK",
        "tijdstipRegistratie": "2024-03-01T10:15:30.123456+01:00",
        "tijdstipStatusWijziging": "2024-03-02T08:00:00.000+01:00",
        "tijdstipWijziging": "2024-03-02T08:00:00+01:00",
        "toelichting": "checking",
        "objectId": "0307100000000001",
        "objectType": "PAND"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [155000, 463000]},
      "properties": {"meldingsNummerVolledig": "TMS-2024-0000043"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[155000, 463000], [155001, 463001]]},
      "properties": {"meldingsNummerVolledig": "TMS-2024-0000044", "tijdstipRegistratie": "2024-03-01T10:15:30+01:00"}
    }
  ]
}`

func TestDecodeReports_RD(t *testing.T) {
	reports, err := DecodeReports([]byte(rdCollection))
	require.NoError(t, err)
	require.Len(t, reports, 1, "features without registration time or point geometry are skipped")

	r := reports[0]
	assert.Equal(t, domain.KindConfirmed, r.Kind())
	assert.Equal(t, "TMS-2024-0000042", r.ID())
	assert.Equal(t, "BAG", r.Registry())
	assert.Equal(t, "building missing", r.Description())
	assert.InDelta(t, 52.15517440, r.Position().Lat, 5e-5)
	assert.InDelta(t, 5.38720621, r.Position().Lon, 5e-5)

	c := r.Confirmed()
	require.NotNil(t, c)
	assert.Equal(t, domain.StatusUnderInvestigation, c.StatusCode)
	assert.Equal(t, int64(42), c.RegistrationSequence)
	assert.Equal(t, "Amersfoort", c.MaintainerName)
	assert.Equal(t, "PAND", c.ObjectType)
	assert.Equal(t, 2024, c.ReportedAt.Year())
	assert.False(t, c.StatusModifiedAt.IsZero())
	assert.False(t, c.ModifiedAt.IsZero())
}

func TestDecodeReports_DefaultCRS(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[{"type":"Feature",
		"geometry":{"type":"Point","coordinates":[5.1,52.1]},
		"properties":{"meldingsNummerVolledig":"1","tijdstipRegistratie":"2024-03-01T10:15:30+01:00"}}]}`

	reports, err := DecodeReports([]byte(data))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, domain.LatLon{Lat: 52.1, Lon: 5.1}, reports[0].Position())
}

func TestDecodeReports_Errors(t *testing.T) {
	tests := []struct {
		want error
		name string
		data string
	}{
		{name: "not json", data: "<html>", want: domain.ErrMalformedResponse},
		{
			name: "unknown crs",
			data: `{"type":"FeatureCollection","crs":{"type":"name","properties":{"name":"EPSG:3857"}},"features":[]}`,
			want: domain.ErrUnsupportedCRS,
		},
		{
			name: "unparsable crs",
			data: `{"type":"FeatureCollection","crs":{"type":"name","properties":{"name":"local"}},"features":[]}`,
			want: domain.ErrUnsupportedCRS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReports([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseEPSG(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{name: "EPSG:28992", want: 28992},
		{name: "urn:ogc:def:crs:EPSG::4326", want: 4326},
		{name: "http://www.opengis.net/def/crs/EPSG/0/4326", want: 4326},
		{name: "epsg:28992", want: 28992},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEPSG(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())

	got := parseTime("2024-03-01T10:15:30.123+01:00")
	assert.Equal(t, time.Date(2024, 3, 1, 9, 15, 30, 123000000, time.UTC), got.UTC())
}

func TestEncodeNewReport(t *testing.T) {
	r := domain.NewPendingReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "pole missing")

	data, err := EncodeNewReport(r, domain.UserConfig{Email: "me@example.org", Organisation: "OSM NL"})
	require.NoError(t, err)

	var got struct {
		CRS struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
		Type     string `json:"type"`
		Name     string `json:"name"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "FeatureCollection", got.Type)
	assert.Equal(t, CollectionName, got.Name)
	assert.Equal(t, CRS4326, got.CRS.Properties.Name)
	require.Len(t, got.Features, 1)
	f := got.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{5.1, 52.1}, f.Geometry.Coordinates)
	assert.Equal(t, map[string]string{
		"registratie":  "BAG",
		"bron":         Source,
		"omschrijving": "pole missing",
		"email":        "me@example.org",
		"Organisatie":  "OSM NL",
	}, f.Properties)
}

func TestEncodeNewReport_OptionalFieldsOmitted(t *testing.T) {
	r := domain.NewPendingReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "pole missing")

	data, err := EncodeNewReport(r, domain.UserConfig{})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "email")
	assert.NotContains(t, string(data), "Organisatie")
}

func TestEncodeNewReport_Confirmed(t *testing.T) {
	r := domain.NewConfirmedReport(domain.LatLon{}, "", "", domain.Confirmed{RegistrationNumber: "1"})

	_, err := EncodeNewReport(r, domain.UserConfig{})

	assert.ErrorIs(t, err, domain.ErrReportNotEditable)
}

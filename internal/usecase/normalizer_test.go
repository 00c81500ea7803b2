package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundromat-finder/internal/domain"
)

func node(id int64, lat, lon float64, tags map[string]string) domain.RawElement {
	return domain.RawElement{
		Type:     domain.ElementNode,
		ID:       id,
		Geometry: domain.PointGeometry{Lat: lat, Lon: lon},
		Tags:     tags,
	}
}

func TestNormalizeElement_PointWithFullTags(t *testing.T) {
	el := node(12345, 1.0, 2.0, map[string]string{
		"shop":             "laundry",
		"name":             "Clean Co",
		"addr:housenumber": "12",
		"addr:street":      "Main St",
		"addr:city":        "Springfield",
	})

	result, ok := normalizeElement(el)
	require.True(t, ok)

	assert.Equal(t, "node/12345", result.ID)
	assert.Equal(t, "Clean Co", result.Name)
	require.NotNil(t, result.Address)
	assert.Equal(t, "12 Main St, Springfield", *result.Address)
	assert.Equal(t, 1.0, result.Lat)
	assert.Equal(t, 2.0, result.Lon)
	assert.Nil(t, result.DistanceKm)
	assert.Equal(t, "https://www.openstreetmap.org/node/12345", result.OSMURL)
}

func TestNormalizeElement_DefaultName(t *testing.T) {
	result, ok := normalizeElement(node(1, 0, 0, map[string]string{"amenity": "laundrette"}))
	require.True(t, ok)

	assert.Equal(t, "Laundromat", result.Name)
	assert.Nil(t, result.Address)
	assert.Nil(t, result.Phone)
	assert.Nil(t, result.Website)
	assert.Nil(t, result.OpeningHours)

	result, ok = normalizeElement(node(2, 0, 0, map[string]string{"name": ""}))
	require.True(t, ok)
	assert.Equal(t, "Laundromat", result.Name)
}

func TestNormalizeElement_AreaUsesCentroid(t *testing.T) {
	el := domain.RawElement{
		Type:     domain.ElementWay,
		ID:       678,
		Geometry: domain.AreaGeometry{Centroid: domain.Point{Lat: 5.0, Lon: 6.0}},
		Tags:     map[string]string{"amenity": "laundry"},
	}

	result, ok := normalizeElement(el)
	require.True(t, ok)

	assert.Equal(t, 5.0, result.Lat)
	assert.Equal(t, 6.0, result.Lon)
	assert.Equal(t, "way/678", result.ID)
	assert.Equal(t, "https://www.openstreetmap.org/way/678", result.OSMURL)
}

func TestNormalizeElement_NoCoordinatesDropped(t *testing.T) {
	_, ok := normalizeElement(domain.RawElement{
		Type: domain.ElementWay,
		ID:   5,
		Tags: map[string]string{"name": "Ghost Wash"},
	})
	assert.False(t, ok)
}

func TestNormalizeElement_ContactPrecedence(t *testing.T) {
	tests := []struct {
		name            string
		tags            map[string]string
		expectedPhone   *string
		expectedWebsite *string
	}{
		{
			name: "primary tags win",
			tags: map[string]string{
				"phone":           "+1 555 0100",
				"contact:phone":   "+1 555 0199",
				"website":         "https://clean.example",
				"contact:website": "https://contact.example",
			},
			expectedPhone:   strPtr("+1 555 0100"),
			expectedWebsite: strPtr("https://clean.example"),
		},
		{
			name: "contact fallbacks",
			tags: map[string]string{
				"contact:phone":   "+1 555 0199",
				"contact:website": "https://contact.example",
			},
			expectedPhone:   strPtr("+1 555 0199"),
			expectedWebsite: strPtr("https://contact.example"),
		},
		{
			name: "empty primary falls through",
			tags: map[string]string{
				"phone":         "",
				"contact:phone": "+1 555 0199",
				"website":       "",
			},
			expectedPhone:   strPtr("+1 555 0199"),
			expectedWebsite: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := normalizeElement(node(1, 0, 0, tt.tags))
			require.True(t, ok)
			assert.Equal(t, tt.expectedPhone, result.Phone)
			assert.Equal(t, tt.expectedWebsite, result.Website)
		})
	}
}

func TestNormalizeElement_OpeningHoursVerbatim(t *testing.T) {
	result, ok := normalizeElement(node(1, 0, 0, map[string]string{"opening_hours": "Mo-Su 07:00-22:00"}))
	require.True(t, ok)
	require.NotNil(t, result.OpeningHours)
	assert.Equal(t, "Mo-Su 07:00-22:00", *result.OpeningHours)
}

func TestBuildAddress(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected *string
	}{
		{
			name:     "no address tags",
			tags:     map[string]string{"shop": "laundry"},
			expected: nil,
		},
		{
			name:     "street without house number",
			tags:     map[string]string{"addr:street": "Main St"},
			expected: strPtr("Main St"),
		},
		{
			name:     "house number without street is ignored",
			tags:     map[string]string{"addr:housenumber": "12", "addr:postcode": "62701"},
			expected: strPtr("62701"),
		},
		{
			name: "full address",
			tags: map[string]string{
				"addr:housenumber": "12",
				"addr:street":      "Main St",
				"addr:city":        "Springfield",
				"addr:state":       "IL",
				"addr:postcode":    "62701",
			},
			expected: strPtr("12 Main St, Springfield, IL, 62701"),
		},
		{
			name: "town and province fallbacks",
			tags: map[string]string{
				"addr:town":     "Smallville",
				"addr:province": "Ontario",
			},
			expected: strPtr("Smallville, Ontario"),
		},
		{
			name: "village when city and town are absent",
			tags: map[string]string{
				"addr:village": "Hamlet",
				"addr:city":    "",
			},
			expected: strPtr("Hamlet"),
		},
		{
			name:     "state only",
			tags:     map[string]string{"addr:state": "Bavaria"},
			expected: strPtr("Bavaria"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildAddress(node(1, 0, 0, tt.tags)))
		})
	}
}

func TestNormalizeElement_AddrFullFallback(t *testing.T) {
	result, ok := normalizeElement(node(1, 0, 0, map[string]string{
		"addr:full": "Unit 4, Market Square, Oldtown",
	}))
	require.True(t, ok)
	require.NotNil(t, result.Address)
	assert.Equal(t, "Unit 4, Market Square, Oldtown", *result.Address)

	result, ok = normalizeElement(node(1, 0, 0, map[string]string{
		"addr:full":   "ignored",
		"addr:street": "High St",
	}))
	require.True(t, ok)
	assert.Equal(t, "High St", *result.Address)
}

func TestCompareByName(t *testing.T) {
	a := domain.Laundromat{Name: "Alpha"}
	b := domain.Laundromat{Name: "beta"}
	upper := domain.Laundromat{Name: "Zeta"}
	empty := domain.Laundromat{}

	assert.Negative(t, compareByName(a, b))
	assert.Negative(t, compareByName(upper, b), "comparison is case-sensitive")
	assert.Positive(t, compareByName(empty, a), "empty names sort last")
	assert.Negative(t, compareByName(a, empty))
	assert.Zero(t, compareByName(empty, empty))
	assert.Zero(t, compareByName(a, a))
}

func strPtr(s string) *string {
	return &s
}

package dto

import (
	"net/url"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionFromQuery(t *testing.T) {
	q := url.Values{
		"defect_type":    {"1", "all"},
		"severity[]":     {"2"},
		"city":           {"Taichung", " "},
		"city[]":         {"Taipei"},
		"road_section":   {"Taiwan Blvd"},
		"start_time":     {"2024-01-01"},
		"unrelated_name": {"x"},
	}

	s := SelectionFromQuery(q)
	assert.Equal(t, Values{"1", "all"}, s.DefectTypes)
	assert.Equal(t, Values{"2"}, s.Severities)
	assert.Equal(t, Values{"Taichung", "Taipei"}, s.Cities)
	assert.True(t, s.IsMultiSelect())

	f := s.ScalarFilter()
	assert.Equal(t, "Taiwan Blvd", f.RoadSection)
	assert.Equal(t, "2024-01-01", f.StartTime)
	assert.Empty(t, f.District)
}

func TestSelectionFromQuerySplitsJoinedCities(t *testing.T) {
	s := SelectionFromQuery(url.Values{
		"city":   {"Taichung, Taipei", "Tainan,"},
		"city[]": {"Kaohsiung"},
	})

	require.Len(t, s.Cities, 4)
	assert.Equal(t, Values{"Taichung", "Taipei", "Tainan", "Kaohsiung"}, s.Cities)

	road := SelectionFromQuery(url.Values{"road_section": {"Zhongshan Rd, Sec. 1"}})
	assert.Equal(t, Values{"Zhongshan Rd, Sec. 1"}, road.RoadSections)
}

func TestSelectionJSONAcceptsMixedValues(t *testing.T) {
	var s Selection
	err := sonic.Unmarshal([]byte(`{
		"city": ["Taichung", "Taipei"],
		"defect_type": [1, 3],
		"severity": 2,
		"district": "Xitun",
		"road_section": null
	}`), &s)
	require.NoError(t, err)

	assert.Equal(t, Values{"Taichung", "Taipei"}, s.Cities)
	assert.Equal(t, Values{"1", "3"}, s.DefectTypes)
	assert.Equal(t, Values{"2"}, s.Severities)
	assert.Equal(t, Values{"Xitun"}, s.District)
	assert.Nil(t, s.RoadSections)
}

func TestSelectionJSONRejectsObjects(t *testing.T) {
	var s Selection
	err := sonic.Unmarshal([]byte(`{"city": [{"name": "x"}]}`), &s)
	assert.Error(t, err)
}

func TestValuesEffectiveDropsDimensionOnAll(t *testing.T) {
	assert.Nil(t, Values{"Taichung", "all"}.Effective())
	assert.Nil(t, Values{"ALL"}.Effective())
	assert.Nil(t, Values(nil).Effective())
	assert.Equal(t, []string{"Taichung"}, Values{"Taichung"}.Effective())
}

func TestPassThrough(t *testing.T) {
	s := Selection{
		Cities:      Values{"Taichung", "Taipei"},
		DefectTypes: Values{"all"},
		Severities:  Values{"1", "2"},
		StartTime:   Values{"2024-01-01"},
	}

	got := s.PassThrough()
	assert.Equal(t, []string{"Taichung", "Taipei"}, got["city"])
	assert.Equal(t, []string{"1", "2"}, got["severity"])
	assert.NotContains(t, got, "defect_type")
	assert.Equal(t, "2024-01-01", got.Get("start_time"))
}

func TestQueryFilterValues(t *testing.T) {
	typ, sev := 1, 3
	f := QueryFilter{DefectType: &typ, Severity: &sev, Cities: []string{"A", "B"}, District: "X"}

	assert.Equal(t, "city=A&city=B&defect_type=1&district=X&severity=3", f.Values().Encode())
	assert.Empty(t, QueryFilter{}.Values())
}

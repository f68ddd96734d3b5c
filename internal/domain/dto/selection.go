package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
)

const (
	ParamDefectType  = "defect_type"
	ParamSeverity    = "severity"
	ParamCity        = "city"
	ParamDistrict    = "district"
	ParamRoadSection = "road_section"
	ParamStartTime   = "start_time"
	ParamEndTime     = "end_time"
)

// Values is a multi-select field. In JSON it may be a string, a number or an array of either.
type Values []string

func (v *Values) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = nil
		return nil
	}

	if data[0] != '[' {
		s, err := scalarJSON(data)
		if err != nil {
			return err
		}
		*v = appendNonEmpty(nil, s)
		return nil
	}

	var items []json.RawMessage
	if err := sonic.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(Values, 0, len(items))
	for _, item := range items {
		s, err := scalarJSON(item)
		if err != nil {
			return err
		}
		out = appendNonEmpty(out, s)
	}
	*v = out
	return nil
}

func scalarJSON(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := sonic.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("unsupported filter value %s", raw)
	}
	return n.String(), nil
}

func appendNonEmpty(dst Values, values ...string) Values {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}

// First returns the first value or "".
func (v Values) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// HasAll reports whether the "all" sentinel was selected.
func (v Values) HasAll() bool {
	for _, s := range v {
		if strings.EqualFold(s, constants.FilterAll) {
			return true
		}
	}
	return false
}

// Effective drops the whole dimension when "all" is present.
func (v Values) Effective() []string {
	if len(v) == 0 || v.HasAll() {
		return nil
	}
	return append([]string(nil), v...)
}

// Selection is the raw set of filters a user picked, before it is turned into downstream queries.
type Selection struct {
	DefectTypes  Values `json:"defect_type"`
	Severities   Values `json:"severity"`
	Cities       Values `json:"city"`
	District     Values `json:"district"`
	RoadSections Values `json:"road_section"`
	StartTime    Values `json:"start_time"`
	EndTime      Values `json:"end_time"`
}

// SelectionFromQuery reads repeated keys; "key[]" is accepted as an alias of "key".
// Cities may also come comma-joined, as the search form's single city field sends them.
func SelectionFromQuery(q url.Values) Selection {
	get := func(key string) Values {
		return appendNonEmpty(appendNonEmpty(nil, q[key]...), q[key+"[]"]...)
	}

	return Selection{
		DefectTypes:  get(ParamDefectType),
		Severities:   get(ParamSeverity),
		Cities:       splitList(get(ParamCity)),
		District:     get(ParamDistrict),
		RoadSections: get(ParamRoadSection),
		StartTime:    get(ParamStartTime),
		EndTime:      get(ParamEndTime),
	}
}

func splitList(values Values) Values {
	var out Values
	for _, v := range values {
		out = appendNonEmpty(out, strings.Split(v, ",")...)
	}
	return out
}

// IsMultiSelect reports whether any multi-select dimension was supplied, "all" included.
func (s Selection) IsMultiSelect() bool {
	return len(s.DefectTypes) > 0 || len(s.Severities) > 0 || len(s.Cities) > 0
}

func (s Selection) IsEmpty() bool {
	return !s.IsMultiSelect() &&
		len(s.District) == 0 && len(s.RoadSections) == 0 &&
		len(s.StartTime) == 0 && len(s.EndTime) == 0
}

// ScalarFilter carries the single-valued filters shared by every downstream call.
func (s Selection) ScalarFilter() QueryFilter {
	return QueryFilter{
		District:    s.District.First(),
		RoadSection: s.RoadSections.First(),
		StartTime:   s.StartTime.First(),
		EndTime:     s.EndTime.First(),
	}
}

// PassThrough forwards every dimension as a list, for endpoints that accept arrays everywhere.
func (s Selection) PassThrough() url.Values {
	out := url.Values{}
	set := func(key string, v Values) {
		if eff := v.Effective(); len(eff) > 0 {
			out[key] = eff
		}
	}

	set(ParamCity, s.Cities)
	set(ParamDistrict, s.District)
	set(ParamRoadSection, s.RoadSections)
	set(ParamDefectType, s.DefectTypes)
	set(ParamSeverity, s.Severities)
	if v := s.StartTime.First(); v != "" {
		out.Set(ParamStartTime, v)
	}
	if v := s.EndTime.First(); v != "" {
		out.Set(ParamEndTime, v)
	}
	return out
}

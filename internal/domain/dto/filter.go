package dto

import (
	"net/url"
	"strconv"
)

// QueryFilter is the effective filter of one call to the defect API.
type QueryFilter struct {
	DefectType  *int
	Severity    *int
	Cities      []string
	District    string
	RoadSection string
	StartTime   string
	EndTime     string
}

// Values renders the filter as query parameters. Cities become a repeated "city" key.
func (f QueryFilter) Values() url.Values {
	out := url.Values{}
	if f.DefectType != nil {
		out.Set(ParamDefectType, strconv.Itoa(*f.DefectType))
	}
	if f.Severity != nil {
		out.Set(ParamSeverity, strconv.Itoa(*f.Severity))
	}
	if len(f.Cities) > 0 {
		out[ParamCity] = append([]string(nil), f.Cities...)
	}
	if f.District != "" {
		out.Set(ParamDistrict, f.District)
	}
	if f.RoadSection != "" {
		out.Set(ParamRoadSection, f.RoadSection)
	}
	if f.StartTime != "" {
		out.Set(ParamStartTime, f.StartTime)
	}
	if f.EndTime != "" {
		out.Set(ParamEndTime, f.EndTime)
	}
	return out
}

// LocationHierarchy maps city -> district -> sorted roads.
type LocationHierarchy map[string]map[string][]string

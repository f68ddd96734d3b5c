package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefectFieldID           = "id"
	DefectFieldCity         = "city"
	DefectFieldDistrict     = "district"
	DefectFieldRoadSection  = "road_section"
	DefectFieldDefectType   = "defect_type"
	DefectFieldSeverity     = "severity"
	DefectFieldDiscoveredAt = "discovered_at"
)

// Defect is one record of the external defect API. The service owns the schema,
// so the record is kept as-is and only the fields used here get accessors.
type Defect map[string]any

func (d Defect) ID() string {
	return scalarString(d[DefectFieldID])
}

func (d Defect) City() string {
	return strings.TrimSpace(scalarString(d[DefectFieldCity]))
}

func (d Defect) District() string {
	return strings.TrimSpace(scalarString(d[DefectFieldDistrict]))
}

func (d Defect) RoadSection() string {
	return strings.TrimSpace(scalarString(d[DefectFieldRoadSection]))
}

func (d Defect) DefectType() string {
	return scalarString(d[DefectFieldDefectType])
}

func (d Defect) DiscoveredAt() string {
	return scalarString(d[DefectFieldDiscoveredAt])
}

// Severity returns the numeric severity; ok is false when it is missing or not a number.
func (d Defect) Severity() (decimal.Decimal, bool) {
	raw := scalarString(d[DefectFieldSeverity])
	if raw == "" {
		return decimal.Zero, false
	}
	val, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return val, true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

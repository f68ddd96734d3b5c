package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefectAccessors(t *testing.T) {
	d := Defect{
		"id":           json.Number("17"),
		"city":         " Taichung ",
		"district":     "Xitun",
		"road_section": "Taiwan Blvd",
		"severity":     json.Number("3"),
	}

	assert.Equal(t, "17", d.ID())
	assert.Equal(t, "Taichung", d.City())
	assert.Equal(t, "Xitun", d.District())
	assert.Equal(t, "Taiwan Blvd", d.RoadSection())

	sev, ok := d.Severity()
	assert.True(t, ok)
	assert.Equal(t, "3", sev.String())
}

func TestDefectIDNormalisesNumbers(t *testing.T) {
	assert.Equal(t, "1", Defect{"id": float64(1)}.ID())
	assert.Equal(t, "1", Defect{"id": 1}.ID())
	assert.Equal(t, "abc", Defect{"id": "abc"}.ID())
	assert.Equal(t, "", Defect{}.ID())
}

func TestDefectSeverityMissing(t *testing.T) {
	_, ok := Defect{"severity": "high"}.Severity()
	assert.False(t, ok)

	_, ok = Defect{}.Severity()
	assert.False(t, ok)
}

func TestUserPassword(t *testing.T) {
	var p UserPassword
	assert.NoError(t, p.Init("Secret123"))
	assert.NotEqual(t, "Secret123", p.Hash)
	assert.NoError(t, p.Validate("Secret123"))
	assert.Error(t, p.Validate("secret123"))
}

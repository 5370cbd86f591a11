package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	accepted := map[string]struct {
		in   interface{}
		want float64
	}{
		"sea surface temp": {float64(18.25), 18.25},
		"salinity float32": {float32(34.5), 34.5},
		"catch count int":  {int(412), 412},
		"depth int16":      {int16(-120), -120},
		"buoy id int64":    {int64(46042), 46042},
		"tally uint8":      {uint8(9), 9},
		"tally uint64":     {uint64(1 << 20), 1 << 20},
		"decoded json":     {json.Number("7.75"), 7.75},
	}
	for name, c := range accepted {
		t.Run(name, func(t *testing.T) {
			got, ok := ToFloat64(c.in)
			assert.True(t, ok)
			assert.Equal(t, c.want, got)
		})
	}

	rejected := map[string]interface{}{
		"malformed json": json.Number("1.2.3"),
		"quoted number":  "12",
		"flag":           false,
		"missing":        nil,
		"nested":         []float64{1},
		"nan":            math.NaN(),
		"neg inf":        math.Inf(-1),
	}
	for name, in := range rejected {
		t.Run(name, func(t *testing.T) {
			got, ok := ToFloat64(in)
			assert.False(t, ok)
			assert.Zero(t, got)
		})
	}
}

func TestToFloat64Slice(t *testing.T) {
	values, bad := ToFloat64Slice([]interface{}{1.0, 2, json.Number("3")})
	assert.Equal(t, -1, bad)
	assert.Equal(t, []float64{1, 2, 3}, values)

	values, bad = ToFloat64Slice([]interface{}{1.0, "x", 3.0, nil})
	assert.Equal(t, 1, bad)
	assert.Nil(t, values)

	values, bad = ToFloat64Slice(nil)
	assert.Equal(t, -1, bad)
	assert.Empty(t, values)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric(7))
	assert.False(t, IsNumeric("7"))
}

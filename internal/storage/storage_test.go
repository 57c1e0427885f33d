package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Float
	}{
		{name: "plain number", in: `{"v": 12.5}`, want: 12.5},
		{name: "integer", in: `{"v": 5000}`, want: 5000},
		{name: "quoted number", in: `{"v": "12.5"}`, want: 12.5},
		{name: "quoted with spaces", in: `{"v": " 0.28 "}`, want: 0.28},
		{name: "null", in: `{"v": null}`, want: 0},
		{name: "empty string", in: `{"v": ""}`, want: 0},
		{name: "garbage string", in: `{"v": "abc"}`, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got struct {
				V Float `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got.V)
		})
	}
}

func TestFloat_UnmarshalJSON_MissingField(t *testing.T) {
	var got struct {
		V Float `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &got))
	assert.Equal(t, Float(0), got.V)
}

func TestFloat_Scan(t *testing.T) {
	var f Float

	require.NoError(t, f.Scan(float64(283.25)))
	assert.Equal(t, Float(283.25), f)

	require.NoError(t, f.Scan(int64(500)))
	assert.Equal(t, Float(500), f)

	require.NoError(t, f.Scan([]byte("0.05")))
	assert.Equal(t, Float(0.05), f)

	require.NoError(t, f.Scan(nil))
	assert.Equal(t, Float(0), f)

	assert.Error(t, f.Scan(true))
}

func TestValidateBOM(t *testing.T) {
	line := BOMLine{FabricQuality: "S/J 160 GSM", Avg: 0.25, Unit: UnitKg}

	err := ValidateBOM(nil)
	assert.ErrorIs(t, err, ErrNoCombos)

	err = ValidateBOM([]Combo{{ComboName: "RED LOT"}})
	assert.ErrorIs(t, err, ErrNoLines)

	err = ValidateBOM([]Combo{
		{ComboName: "RED LOT", BomLines: []BOMLine{line}},
		{ComboName: "BLUE LOT"},
	})
	assert.ErrorIs(t, err, ErrNoLines)

	err = ValidateBOM([]Combo{{ComboName: "RED LOT", BomLines: []BOMLine{line}}})
	assert.NoError(t, err)
}

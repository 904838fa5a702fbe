package model_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

func TestRecordLookup(t *testing.T) {
	rec := model.Record{
		"s_sitename": "AIIMS Delhi",
		"site":       nil,
		"count":      "12",
		"top_performer": map[string]any{
			"s_sitename": "AIIMS Patna",
			"score":      91.5,
		},
	}

	t.Run("first present alias wins", func(t *testing.T) {
		v, ok := rec.Lookup(types.FieldPath{"site", "s_sitename"})
		gt.True(t, ok)
		gt.Equal(t, v, any("AIIMS Delhi"))
	})

	t.Run("dotted alias walks nested objects", func(t *testing.T) {
		gt.Equal(t, rec.Label(types.FieldPath{"top_performer.s_sitename"}), "AIIMS Patna")
		gt.Equal(t, rec.Number(types.FieldPath{"top_performer.score"}), 91.5)
	})

	t.Run("missing path", func(t *testing.T) {
		_, ok := rec.Lookup(types.FieldPath{"gender", "p_sex"})
		gt.False(t, ok)
		gt.Equal(t, rec.Label(types.FieldPath{"gender"}), "")
		_, ok = rec.Lookup(types.FieldPath{"top_performer.missing"})
		gt.False(t, ok)
	})
}

func TestRecordNumber(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected float64
	}{
		{name: "float", value: 5.0, expected: 5},
		{name: "int from yaml", value: 461, expected: 461},
		{name: "numeric string", value: "12", expected: 12},
		{name: "non numeric string", value: "abc", expected: 0},
		{name: "empty string", value: "", expected: 0},
		{name: "bool", value: true, expected: 0},
		{name: "nested object", value: map[string]any{"a": 1}, expected: 0},
		{name: "NaN", value: math.NaN(), expected: 0},
		{name: "Inf", value: math.Inf(1), expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := model.Record{"count": tc.value}
			gt.Equal(t, rec.Number(types.FieldPath{"count"}), tc.expected)
		})
	}

	t.Run("missing coerces to zero", func(t *testing.T) {
		gt.Equal(t, model.Record{}.Number(types.FieldPath{"count"}), 0.0)
	})
}

func TestRecordLabel(t *testing.T) {
	gt.Equal(t, model.Record{"week": 3.0}.Label(types.FieldPath{"week"}), "3")
	gt.Equal(t, model.Record{"site": "  X "}.Label(types.FieldPath{"site"}), "X")
	gt.Equal(t, model.Record{"site": []any{"X"}}.Label(types.FieldPath{"site"}), "")
}

func TestRecordClone(t *testing.T) {
	orig := model.Record{"site": "X"}
	cloned := orig.Clone()
	cloned["site"] = "Y"
	gt.Equal(t, orig["site"], any("X"))
}

func TestSeriesSetValidate(t *testing.T) {
	t.Run("aligned set is valid", func(t *testing.T) {
		set := model.SeriesSet{
			Categories: []string{"X", "Y"},
			Series:     []model.Series{{Name: "M", Data: []float64{5, 2}}},
		}
		gt.NoError(t, set.Validate())
		gt.False(t, set.IsEmpty())
	})

	t.Run("misaligned series", func(t *testing.T) {
		set := model.SeriesSet{
			Categories: []string{"X", "Y"},
			Series:     []model.Series{{Name: "M", Data: []float64{5}}},
		}
		gt.Error(t, set.Validate())
	})

	t.Run("duplicate category", func(t *testing.T) {
		set := model.SeriesSet{Categories: []string{"X", "X"}}
		gt.Error(t, set.Validate())
	})

	t.Run("empty set", func(t *testing.T) {
		set := model.EmptySeriesSet()
		gt.NoError(t, set.Validate())
		gt.True(t, set.IsEmpty())
		gt.NotNil(t, set.Categories)
		gt.NotNil(t, set.Series)
	})
}

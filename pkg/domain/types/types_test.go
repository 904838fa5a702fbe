package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

func TestFallbackModeValidation(t *testing.T) {
	tests := []struct {
		name     string
		mode     types.FallbackMode
		expected bool
	}{
		{"Valid placeholder", types.FallbackPlaceholder, true},
		{"Valid empty", types.FallbackEmpty, true},
		{"Valid error", types.FallbackError, true},
		{"Invalid empty string", types.FallbackMode(""), false},
		{"Invalid mixed case", types.FallbackMode("Placeholder"), false},
		{"Invalid unknown", types.FallbackMode("mock"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.mode.IsValid()
			if result != tt.expected {
				t.Errorf("FallbackMode(%q).IsValid() = %v, want %v", tt.mode, result, tt.expected)
			}
		})
	}
}

func TestParseFallbackMode(t *testing.T) {
	mode, err := types.ParseFallbackMode("empty")
	gt.NoError(t, err)
	gt.Equal(t, mode, types.FallbackEmpty)

	_, err = types.ParseFallbackMode("mock")
	gt.Error(t, err)
}

func TestEnumValidation(t *testing.T) {
	gt.True(t, types.PanelKindTable.IsValid())
	gt.False(t, types.PanelKind("gauge").IsValid())

	gt.True(t, types.ChartKindDonut.IsValid())
	gt.False(t, types.ChartKind("area").IsValid())

	gt.True(t, types.AxisOrder("").IsValid())
	gt.True(t, types.AxisOrderOrdinal.IsValid())
	gt.False(t, types.AxisOrder("alphabetical").IsValid())

	gt.True(t, types.SortNone.IsValid())
	gt.False(t, types.SortOrder("random").IsValid())

	gt.True(t, types.KPIFormat("").IsValid())
	gt.False(t, types.KPIFormat("currency").IsValid())

	gt.True(t, types.ProjectionWide.IsValid())
	gt.False(t, types.ProjectionMode("").IsValid())
}

func TestFetchStatusIsTerminal(t *testing.T) {
	gt.False(t, types.FetchStatusIdle.IsTerminal())
	gt.False(t, types.FetchStatusLoading.IsTerminal())
	gt.True(t, types.FetchStatusSuccess.IsTerminal())
	gt.True(t, types.FetchStatusError.IsTerminal())
}

func TestFieldPathUnmarshalYAML(t *testing.T) {
	t.Run("scalar becomes single alias", func(t *testing.T) {
		var v struct {
			Field types.FieldPath `yaml:"field"`
		}
		gt.NoError(t, yaml.Unmarshal([]byte("field: site\n"), &v))
		gt.Equal(t, v.Field, types.FieldPath{"site"})
	})

	t.Run("list keeps alias order", func(t *testing.T) {
		var v struct {
			Field types.FieldPath `yaml:"field"`
		}
		gt.NoError(t, yaml.Unmarshal([]byte("field: [gender, p_sex, sex]\n"), &v))
		gt.Equal(t, v.Field, types.FieldPath{"gender", "p_sex", "sex"})
		gt.Equal(t, v.Field.String(), "gender|p_sex|sex")
	})

	t.Run("mapping is rejected", func(t *testing.T) {
		var v struct {
			Field types.FieldPath `yaml:"field"`
		}
		gt.Error(t, yaml.Unmarshal([]byte("field: {name: site}\n"), &v))
	})

	t.Run("empty detection", func(t *testing.T) {
		gt.True(t, types.FieldPath{}.IsEmpty())
		gt.True(t, types.FieldPath{""}.IsEmpty())
		gt.False(t, types.FieldPath{"", "count"}.IsEmpty())
	})
}

func TestNewScopeID(t *testing.T) {
	a := types.NewScopeID()
	b := types.NewScopeID()
	gt.NotEqual(t, a, b)
	gt.Equal(t, len(a.String()), 36)
}

package usecase

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/spf13/cast"
)

// resolveKPIs reads every KPI and ratio of a panel from one KPI object.
// Missing or null fields fall back to the KPI's default, then to 0.
func resolveKPIs(panel *model.PanelSpec, rec model.Record) []model.KPI {
	kpis := make([]model.KPI, 0, len(panel.KPIs)+len(panel.Ratios))

	for _, spec := range panel.KPIs {
		value, ok := rec.Lookup(spec.Field)
		if !ok {
			value = spec.Default
		}

		var kpi model.KPI
		if spec.Format == types.KPIFormatText {
			text := cast.ToString(value)
			if value == nil {
				text = "-"
			}
			kpi = model.KPI{ID: spec.ID, Label: spec.Label, Value: text, Display: text, Format: spec.Format}
		} else {
			n := model.ToNumber(value)
			kpi = model.KPI{
				ID:      spec.ID,
				Label:   spec.Label,
				Value:   n,
				Display: formatNumber(n, spec.Format, spec.Decimals, spec.Unit),
				Format:  spec.Format,
			}
		}
		kpis = append(kpis, kpi)
	}

	for _, ratio := range panel.Ratios {
		num := rec.Number(ratio.Numerator)
		den := rec.Number(ratio.Denominator)
		var pct float64
		if den != 0 {
			pct = num / den * 100
		}
		kpis = append(kpis, model.KPI{
			ID:      ratio.ID,
			Label:   ratio.Label,
			Value:   pct,
			Display: formatNumber(pct, types.KPIFormatPercent, 1, ""),
			Format:  types.KPIFormatPercent,
		})
	}

	return kpis
}

func formatNumber(v float64, format types.KPIFormat, decimals int, unit string) string {
	var s string
	switch format {
	case types.KPIFormatPercent:
		s = humanize.FtoaWithDigits(v, decimals) + "%"
	case types.KPIFormatDuration:
		if unit == "" {
			unit = "days"
		}
		s = humanize.FtoaWithDigits(v, max(decimals, 1))
	default:
		s = humanize.CommafWithDigits(v, decimals)
	}

	if unit != "" {
		s = strings.TrimSpace(s + " " + unit)
	}
	return s
}

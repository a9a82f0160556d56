// Package classify turns region signals into per-slot verdicts.
package classify

import (
	"toolcheck/internal/config"
	"toolcheck/internal/model"
)

// Confidence combines the three signal ratios into a single occupancy score
// in [0, 1]. Each ratio is clamped before weighting so malformed inputs
// cannot push the score outside the range.
func Confidence(s model.RegionSignals, params config.DetectionParams) float64 {
	score := params.WeightBrightness*clamp01(s.BrightnessRatio) +
		params.WeightSaturation*clamp01(s.SaturationRatio) +
		params.WeightEdges*clamp01(s.EdgeDensity)
	return clamp01(score)
}

// Status maps a confidence score onto a verdict. Cutoffs are inclusive:
// a score exactly at PresentCutoff is present, exactly at MissingCutoff is
// missing, anything between is uncertain.
func Status(confidence float64, params config.DetectionParams) model.ToolStatus {
	switch {
	case confidence >= params.PresentCutoff:
		return model.ToolPresent
	case confidence <= params.MissingCutoff:
		return model.ToolMissing
	default:
		return model.ToolUncertain
	}
}

// Slot classifies one slot from its signals. When ok is false the signals
// were not measurable (region outside the image) and the verdict is
// uncertain with zero confidence and zero signals.
func Slot(tool model.ToolDefinition, signals model.RegionSignals, ok bool, params config.DetectionParams) model.SlotVerdict {
	v := model.SlotVerdict{
		ToolID:    tool.ID,
		Name:      tool.Name,
		SlotIndex: tool.SlotIndex,
	}
	if !ok {
		v.Status = model.ToolUncertain
		return v
	}
	v.Signals = signals
	v.Confidence = Confidence(signals, params)
	v.Status = Status(v.Confidence, params)
	return v
}

// Summarize tallies verdicts by status.
func Summarize(verdicts []model.SlotVerdict) model.Summary {
	var s model.Summary
	s.Total = len(verdicts)
	for _, v := range verdicts {
		switch v.Status {
		case model.ToolPresent:
			s.Present++
		case model.ToolMissing:
			s.Missing++
		default:
			s.Uncertain++
		}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

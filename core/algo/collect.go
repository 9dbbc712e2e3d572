package algo

import (
	"sort"

	"github.com/huangsam/readiness/schema"
)

// Training label parameters.
const (
	firstEnergyWeight  = 0.4
	secondEnergyWeight = 0.6
	energyLabelScale   = 20
)

// TrainingLabel blends the two daily self-reports into a 20..100 label.
func TrainingLabel(first, second int) float64 {
	raw := (float64(first)*firstEnergyWeight + float64(second)*secondEnergyWeight) * energyLabelScale
	return schema.Clamp(raw, MLScoreMin, MLScoreMax)
}

// CollectTrainingExamples turns completed days into labeled examples sorted by date.
// Days without both self-reports, or with fewer than MinPredictFeatures features, are skipped.
func CollectTrainingExamples(src schema.ObservationSource, trainedExampleCount int) []schema.TrainingExample {
	var days []schema.DayObservation
	switch src.Kind {
	case schema.DayRecordObservations:
		days = observationsFromDays(src.Days)
	default:
		days = observationsFromCheckIns(src.CheckIns, src.Metrics)
	}

	examples := make([]schema.TrainingExample, 0, len(days))
	for _, day := range days {
		fv := ExtractFeatures(day.Metrics, trainedExampleCount, day.Date)
		if fv.AvailableFeatureCount() < MinPredictFeatures {
			continue
		}
		examples = append(examples, schema.TrainingExample{
			Features: fv,
			Label:    TrainingLabel(day.FirstEnergy, day.SecondEnergy),
			Date:     day.Date,
		})
	}

	sort.Slice(examples, func(i, j int) bool {
		return examples[i].Date.Before(examples[j].Date)
	})
	return examples
}

// observationsFromCheckIns pairs the latest morning and evening check-in of each day
// and joins the metrics recorded for the same day.
func observationsFromCheckIns(checkIns []schema.CheckIn, metrics []schema.MetricsRecord) []schema.DayObservation {
	type pair struct {
		first, second *schema.CheckIn
	}
	pairs := make(map[string]*pair)
	for i := range checkIns {
		c := &checkIns[i]
		key := schema.DayKey(c.Date)
		p, ok := pairs[key]
		if !ok {
			p = &pair{}
			pairs[key] = p
		}
		switch c.Slot {
		case schema.MorningSlot:
			if p.first == nil || c.RecordedAt.After(p.first.RecordedAt) {
				p.first = c
			}
		case schema.EveningSlot:
			if p.second == nil || c.RecordedAt.After(p.second.RecordedAt) {
				p.second = c
			}
		}
	}

	byDay := make(map[string]*schema.MetricsRecord, len(metrics))
	for i := range metrics {
		byDay[schema.DayKey(metrics[i].Date)] = &metrics[i]
	}

	out := make([]schema.DayObservation, 0, len(pairs))
	for key, p := range pairs {
		if p.first == nil || p.second == nil {
			continue
		}
		out = append(out, schema.DayObservation{
			Date:         schema.DayStart(p.first.Date),
			FirstEnergy:  p.first.EnergyLevel,
			SecondEnergy: p.second.EnergyLevel,
			Metrics:      byDay[key],
		})
	}
	return out
}

func observationsFromDays(records []schema.DayRecord) []schema.DayObservation {
	out := make([]schema.DayObservation, 0, len(records))
	for _, r := range records {
		if r.FirstEnergy == nil || r.SecondEnergy == nil {
			continue
		}
		out = append(out, schema.DayObservation{
			Date:         schema.DayStart(r.Date),
			FirstEnergy:  *r.FirstEnergy,
			SecondEnergy: *r.SecondEnergy,
			Metrics:      r.Metrics,
		})
	}
	return out
}

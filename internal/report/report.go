// Package report assembles the human-readable diagnosis report from a
// classification result: ranked conditions, coarse severity labels and
// the per-tab views the client renders.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dermaview.org/internal/classify"
)

// ErrNoConditions indicates a report was requested before any results
// were attached.
var ErrNoConditions = errors.New("report: no conditions")

// Condition is one ranked entry of a diagnosis result. Probability is on
// the canonical 0-100 scale.
type Condition struct {
	Name        string   `json:"name"`
	Probability float64  `json:"probability"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	NextSteps   []string `json:"nextSteps"`
	Treatments  []string `json:"treatments,omitempty"`
}

// Report is the fully rendered multi-tab diagnosis view.
type Report struct {
	Primary      Condition   `json:"primary"`
	Differential []Condition `json:"differential"`
	Tabs         Tabs        `json:"tabs"`
}

// Tabs mirror the three views of the diagnosis page.
type Tabs struct {
	Overview   OverviewTab   `json:"overview"`
	Analysis   AnalysisTab   `json:"analysis"`
	Treatments TreatmentsTab `json:"treatments"`
}

type OverviewTab struct {
	Condition string `json:"condition"`
	Severity  string `json:"severity"`
	Narrative string `json:"narrative"`
}

type AnalysisTab struct {
	Differential []Condition       `json:"differential"`
	Symptoms     map[string]string `json:"symptoms"`
}

type TreatmentsTab struct {
	Condition  string   `json:"condition"`
	Treatments []string `json:"treatments"`
	NextSteps  []string `json:"nextSteps"`
}

// SeverityFor derives a coarse severity label from a 0-100 probability.
func SeverityFor(probability float64) string {
	switch {
	case probability >= 80:
		return "High"
	case probability >= 60:
		return "Moderate"
	case probability >= 40:
		return "Low"
	default:
		return "Very Low"
	}
}

// Conditions converts a prediction distribution into ranked conditions,
// highest probability first (stable for ties), joined with the condition
// catalog and annotated with severity.
func Conditions(preds []classify.Prediction) []Condition {
	out := make([]Condition, 0, len(preds))
	for _, p := range preds {
		entry := lookupCatalog(p.Label)
		out = append(out, Condition{
			Name:        p.Label,
			Probability: p.Probability,
			Severity:    SeverityFor(p.Probability),
			Description: entry.Description,
			NextSteps:   entry.NextSteps,
			Treatments:  entry.Treatments,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	return out
}

// Build renders the report for a diagnosis. Conditions must already be in
// ranked order (the stored order produced by Conditions): the first entry
// becomes the primary, the rest the differential in the same relative
// order.
func Build(conditions []Condition, symptoms map[string]string) (Report, error) {
	if len(conditions) == 0 {
		return Report{}, ErrNoConditions
	}
	primary := conditions[0]
	differential := append([]Condition(nil), conditions[1:]...)
	reported := reportedSymptoms(symptoms)

	return Report{
		Primary:      primary,
		Differential: differential,
		Tabs: Tabs{
			Overview: OverviewTab{
				Condition: primary.Name,
				Severity:  primary.Severity,
				Narrative: narrative(primary, reported),
			},
			Analysis: AnalysisTab{
				Differential: differential,
				Symptoms:     reported,
			},
			Treatments: TreatmentsTab{
				Condition:  primary.Name,
				Treatments: primary.Treatments,
				NextSteps:  primary.NextSteps,
			},
		},
	}, nil
}

// placeholderSymptom reports whether a symptom answer carries no
// information and should be dropped from the narrative.
func placeholderSymptom(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "none reported", "n/a", "na", "no":
		return true
	}
	return false
}

func reportedSymptoms(symptoms map[string]string) map[string]string {
	out := make(map[string]string, len(symptoms))
	for k, v := range symptoms {
		if !placeholderSymptom(v) {
			out[k] = v
		}
	}
	return out
}

func narrative(primary Condition, reported map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The image is most consistent with %s (%.1f%% confidence, %s severity).",
		primary.Name, primary.Probability, strings.ToLower(primary.Severity))

	if len(reported) > 0 {
		keys := make([]string, 0, len(reported))
		for k := range reported {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, reported[k]))
		}
		fmt.Fprintf(&b, " Reported symptoms: %s.", strings.Join(parts, "; "))
	}
	return b.String()
}

package report

import (
	"errors"
	"strings"
	"testing"

	"dermaview.org/internal/classify"
)

func TestSeverityFor(t *testing.T) {
	cases := map[float64]string{
		100:   "High",
		87:    "High",
		80:    "High",
		79.99: "Moderate",
		60:    "Moderate",
		59.99: "Low",
		40:    "Low",
		39.99: "Very Low",
		0:     "Very Low",
	}
	for p, want := range cases {
		if got := SeverityFor(p); got != want {
			t.Fatalf("SeverityFor(%v)=%q, want %q", p, got, want)
		}
	}
}

func TestConditionsRanksByProbability(t *testing.T) {
	preds := []classify.Prediction{
		{Label: "Psoriasis", Probability: 23},
		{Label: "Eczema", Probability: 87},
		{Label: "Contact Dermatitis", Probability: 42},
	}
	conds := Conditions(preds)
	if len(conds) != 3 {
		t.Fatalf("expected 3 conditions, got %d", len(conds))
	}
	wantOrder := []string{"Eczema", "Contact Dermatitis", "Psoriasis"}
	for i, name := range wantOrder {
		if conds[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, conds[i].Name, name)
		}
	}
	if conds[0].Severity != "High" || conds[1].Severity != "Low" || conds[2].Severity != "Very Low" {
		t.Fatalf("unexpected severities: %s/%s/%s", conds[0].Severity, conds[1].Severity, conds[2].Severity)
	}
	if conds[0].Description == "" || len(conds[0].NextSteps) == 0 {
		t.Fatal("catalog content missing for known label")
	}
}

func TestConditionsUnknownLabelGetsGenericContent(t *testing.T) {
	conds := Conditions([]classify.Prediction{{Label: "Mystery", Probability: 50}})
	if conds[0].Description == "" || len(conds[0].NextSteps) == 0 {
		t.Fatal("expected generic catalog fallback")
	}
}

func TestBuildPrimaryAndDifferential(t *testing.T) {
	conds := Conditions([]classify.Prediction{
		{Label: "Eczema", Probability: 87},
		{Label: "Contact Dermatitis", Probability: 42},
		{Label: "Psoriasis", Probability: 23},
	})

	rep, err := Build(conds, map[string]string{
		"itching":  "moderate to severe",
		"pain":     "none reported",
		"duration": "2 weeks",
		"swelling": "None",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Primary.Name != "Eczema" {
		t.Fatalf("primary %q, want Eczema", rep.Primary.Name)
	}
	if len(rep.Differential) != 2 ||
		rep.Differential[0].Name != "Contact Dermatitis" ||
		rep.Differential[1].Name != "Psoriasis" {
		t.Fatalf("unexpected differential: %+v", rep.Differential)
	}

	// Placeholder symptom values must not reach the narrative.
	if _, ok := rep.Tabs.Analysis.Symptoms["pain"]; ok {
		t.Fatal("placeholder symptom leaked into analysis tab")
	}
	if _, ok := rep.Tabs.Analysis.Symptoms["swelling"]; ok {
		t.Fatal("placeholder symptom leaked into analysis tab")
	}
	if !strings.Contains(rep.Tabs.Overview.Narrative, "Eczema") {
		t.Fatalf("narrative missing primary condition: %q", rep.Tabs.Overview.Narrative)
	}
	if !strings.Contains(rep.Tabs.Overview.Narrative, "duration: 2 weeks") {
		t.Fatalf("narrative missing reported symptom: %q", rep.Tabs.Overview.Narrative)
	}
	if strings.Contains(rep.Tabs.Overview.Narrative, "pain") {
		t.Fatalf("narrative contains filtered symptom: %q", rep.Tabs.Overview.Narrative)
	}

	if rep.Tabs.Treatments.Condition != "Eczema" || len(rep.Tabs.Treatments.Treatments) == 0 {
		t.Fatalf("unexpected treatments tab: %+v", rep.Tabs.Treatments)
	}
}

func TestBuildWithoutConditions(t *testing.T) {
	if _, err := Build(nil, nil); !errors.Is(err, ErrNoConditions) {
		t.Fatalf("expected ErrNoConditions, got %v", err)
	}
}

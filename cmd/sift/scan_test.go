package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"sift/internal/analysis"
	"sift/internal/loader"
)

func sampleUnits() []loader.Unit {
	return []loader.Unit{
		{
			Path:      "/roots/a/alpha.json",
			Timestamp: time.Unix(100, 0),
			Analysis: &analysis.Record{
				Kind:    analysis.FormatJson,
				Prelude: &analysis.Prelude{UnitName: "alpha"},
				Defs:    make([]analysis.Def, 3),
				Refs:    make([]analysis.Ref, 5),
				Imports: make([]analysis.Import, 1),
			},
		},
		{
			Path:      "/roots/b/beta.json",
			Timestamp: time.Unix(200, 0),
			Analysis: &analysis.Record{
				Kind:      analysis.FormatJsonApi,
				MacroRefs: make([]analysis.MacroRef, 2),
			},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := summarize(sampleUnits(), 42*time.Millisecond)

	if s.Total != 2 {
		t.Fatalf("total = %d", s.Total)
	}
	if s.ElapsedMs != 42 {
		t.Errorf("elapsedMs = %d", s.ElapsedMs)
	}
	if s.Units[0].Unit != "alpha" || s.Units[0].Defs != 3 || s.Units[0].Refs != 5 {
		t.Errorf("first unit summary = %+v", s.Units[0])
	}
	if s.Units[1].Unit != "" || s.Units[1].MacroRefs != 2 {
		t.Errorf("second unit summary = %+v", s.Units[1])
	}
	if s.Units[1].Format != "JsonApi" {
		t.Errorf("format = %q", s.Units[1].Format)
	}
}

func TestFormatSummary(t *testing.T) {
	s := summarize(sampleUnits(), time.Millisecond)

	t.Run("json", func(t *testing.T) {
		out, err := formatSummary(s, "json")
		if err != nil {
			t.Fatal(err)
		}
		var decoded ScanSummary
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if decoded.Total != 2 {
			t.Errorf("round-tripped total = %d", decoded.Total)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := formatSummary(s, "yaml")
		if err != nil {
			t.Fatal(err)
		}
		var decoded ScanSummary
		if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if len(decoded.Units) != 2 {
			t.Errorf("round-tripped units = %d", len(decoded.Units))
		}
	})

	t.Run("human", func(t *testing.T) {
		out, err := formatSummary(s, "human")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "alpha") || !strings.Contains(out, "<unnamed>") {
			t.Errorf("human output missing unit names:\n%s", out)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := formatSummary(s, "toml"); err == nil {
			t.Error("unknown format accepted")
		}
	})
}

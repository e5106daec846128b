package advisor

import (
	"testing"

	"ramarb/internal/models"
)

func TestParseVerdictPlainJSON(t *testing.T) {
	v, err := parseVerdict(`{"action":"BUY","confidence_score":0.85,"reasoning":"strong spread","risk_assessment":"low"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.Action != models.ActionBuy {
		t.Fatalf("expected BUY, got %s", v.Action)
	}
	if v.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", v.Confidence)
	}
	if v.Reasoning != "strong spread" {
		t.Fatalf("unexpected reasoning %q", v.Reasoning)
	}
}

func TestParseVerdictFencedJSON(t *testing.T) {
	inputs := []string{
		"```json\n{\"action\":\"WAIT\",\"confidence_score\":0.6,\"reasoning\":\"wait it out\",\"risk_assessment\":\"moderate\"}\n```",
		"```\n{\"action\":\"WAIT\",\"confidence_score\":0.6,\"reasoning\":\"wait it out\",\"risk_assessment\":\"moderate\"}\n```",
	}
	for _, in := range inputs {
		v, err := parseVerdict(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if v.Action != models.ActionWait {
			t.Fatalf("expected WAIT, got %s", v.Action)
		}
	}
}

func TestParseVerdictRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "I think you should buy this one."},
		{"unknown action", `{"action":"HOLD","confidence_score":0.5,"reasoning":"x","risk_assessment":"low"}`},
		{"confidence too high", `{"action":"BUY","confidence_score":1.5,"reasoning":"x","risk_assessment":"low"}`},
		{"confidence negative", `{"action":"BUY","confidence_score":-0.1,"reasoning":"x","risk_assessment":"low"}`},
		{"missing reasoning", `{"action":"BUY","confidence_score":0.5,"reasoning":"  ","risk_assessment":"low"}`},
		{"missing risk assessment", `{"action":"BUY","confidence_score":0.9,"reasoning":"fine"}`},
		{"blank risk assessment", `{"action":"BUY","confidence_score":0.9,"reasoning":"fine","risk_assessment":"  "}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseVerdict(tt.input); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

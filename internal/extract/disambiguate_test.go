package extract

import (
	"strings"
	"testing"
)

func TestSelect_EmailSkipsSubscriptionSentence(t *testing.T) {
	sentences := []string{
		"Please add jane@mail.com to subscribe.",
		"My email is jane.doe@mail.com.",
	}
	got, ok := Select(sentences, 0, Email, DefaultRules().For(FieldEmail))
	if !ok {
		t.Fatal("expected an email")
	}
	if got != "jane.doe@mail.com" {
		t.Errorf("expected %q, got %q", "jane.doe@mail.com", got)
	}
}

func TestSelect_PhoneAgentVeto(t *testing.T) {
	sentences := []string{
		"Contact the agent at 555-123-4567 for a tour",
		"My email is john@example.com.",
	}
	rules := DefaultRules()
	if got, ok := Select(sentences, 0, Phone, rules.For(FieldPhone)); ok {
		t.Errorf("expected phone to be vetoed, got %q", got)
	}
	got, ok := Select(sentences, 0, Email, rules.For(FieldEmail))
	if !ok || got != "john@example.com" {
		t.Errorf("expected john@example.com, got (%q,%v)", got, ok)
	}
}

func TestSelect_CustomerCarePhrase(t *testing.T) {
	sentences := []string{
		"For help reach Customer Care at 800-555-0100",
		"Mine is 555-222-3333",
	}
	got, ok := Select(sentences, 0, Phone, DefaultRules().For(FieldPhone))
	if !ok || got != "555-222-3333" {
		t.Errorf("expected 555-222-3333, got (%q,%v)", got, ok)
	}
}

// "call" vetoes even a customer's own number. Kept for compatibility.
func TestSelect_CallQuirkVetoesCustomerNumber(t *testing.T) {
	sentences := []string{"Please call me at 555-123-4567"}
	if got, ok := Select(sentences, 0, Phone, DefaultRules().For(FieldPhone)); ok {
		t.Errorf("expected the call quirk to veto, got %q", got)
	}
}

func TestSelect_TokenVetoIsWholeWord(t *testing.T) {
	// "agents," is not the token "agent"; "recall" is not "call".
	sentences := []string{"No agents, recall 555-123-4567"}
	got, ok := Select(sentences, 0, Phone, DefaultRules().For(FieldPhone))
	if !ok || got != "555-123-4567" {
		t.Errorf("expected whole-word veto only, got (%q,%v)", got, ok)
	}
}

func TestSelect_JoinsAllMatchesInSentence(t *testing.T) {
	sentences := []string{"Cell 555-123-4567 or home 555-765-4321"}
	got, ok := Select(sentences, 0, Phone, VetoRules{})
	if !ok || got != "555-123-4567, 555-765-4321" {
		t.Errorf("expected joined numbers, got (%q,%v)", got, ok)
	}
}

func TestSelect_StartIndex(t *testing.T) {
	sentences := []string{
		"Agent email: agent@realty.com",
		"My name is John Smith",
		"Reach me at john@example.com",
	}
	got, ok := Select(sentences, 1, Email, DefaultRules().For(FieldEmail))
	if !ok || got != "john@example.com" {
		t.Errorf("expected scan from index 1, got (%q,%v)", got, ok)
	}
	got, ok = Select(sentences, 0, Email, DefaultRules().For(FieldEmail))
	if !ok || got != "agent@realty.com" {
		t.Errorf("expected scan from index 0, got (%q,%v)", got, ok)
	}
}

func TestSelect_NothingQualifies(t *testing.T) {
	sentences := []string{"Subscribed as a@b.com", "add c@d.com"}
	if got, ok := Select(sentences, 0, Email, DefaultRules().For(FieldEmail)); ok {
		t.Errorf("expected absent, got %q", got)
	}
	if _, ok := Select(sentences, 5, Email, VetoRules{}); ok {
		t.Error("expected absent for start past end")
	}
	if _, ok := Select(nil, 0, Email, VetoRules{}); ok {
		t.Error("expected absent for no sentences")
	}
}

func TestRules_ForNil(t *testing.T) {
	var r Rules
	if v := r.For(FieldEmail); len(v.Tokens) != 0 || len(v.Phrases) != 0 {
		t.Errorf("expected empty rules, got %+v", v)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want LeadType
	}{
		{"I am the SELLER of this home", Seller},
		{"We are selling our condo", Seller},
		{"Sellers welcome", Seller},
		{"Looking to buy a 3 bed home", Buyer},
		{"", Buyer},
	}
	for _, tc := range tests {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q): expected %q, got %q", tc.text, tc.want, got)
		}
	}
}

func TestLoadRules_OverridesOnlyGivenFields(t *testing.T) {
	input := `
phone:
  tokens: [Agent]
  phrases: ["  Front Desk "]
`
	rules, err := LoadRules(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	phone := rules.For(FieldPhone)
	if len(phone.Tokens) != 1 || phone.Tokens[0] != "agent" {
		t.Errorf("expected phone tokens [agent], got %v", phone.Tokens)
	}
	if len(phone.Phrases) != 1 || phone.Phrases[0] != "front desk" {
		t.Errorf("expected phone phrases [front desk], got %v", phone.Phrases)
	}
	email := rules.For(FieldEmail)
	if len(email.Tokens) != 3 {
		t.Errorf("expected default email tokens, got %v", email.Tokens)
	}

	// "call" is no longer a veto under the override.
	got, ok := Select([]string{"call me at 555-123-4567"}, 0, Phone, phone)
	if !ok || got != "555-123-4567" {
		t.Errorf("expected override to allow number, got (%q,%v)", got, ok)
	}
}

func TestLoadRules_Empty(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules.For(FieldPhone).Tokens) != 2 {
		t.Errorf("expected defaults, got %+v", rules)
	}
}

func TestLoadRules_UnknownFieldRejected(t *testing.T) {
	if _, err := LoadRules(strings.NewReader("fax:\n  tokens: [x]\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoadRulesFile_EmptyPathDefaults(t *testing.T) {
	rules, err := LoadRulesFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules.For(FieldEmail).Tokens) != 3 {
		t.Errorf("expected defaults, got %+v", rules)
	}
	if _, err := LoadRulesFile("/nonexistent/rules.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

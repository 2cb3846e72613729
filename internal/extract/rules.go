package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk shape of a veto-rule override:
//
//	email:
//	  tokens: [add, subscribe, subscribed, unsubscribe]
//	phone:
//	  tokens: [agent, call]
//	  phrases: [customer care, front desk]
type rulesFile struct {
	Email *VetoRules `yaml:"email"`
	Phone *VetoRules `yaml:"phone"`
}

// LoadRules reads YAML veto rules from r. Fields missing from the file keep
// their defaults; entries are trimmed and lower-cased.
func LoadRules(r io.Reader) (Rules, error) {
	var f rulesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	rules := DefaultRules()
	if f.Email != nil {
		rules[FieldEmail] = cleanRules(*f.Email)
	}
	if f.Phone != nil {
		rules[FieldPhone] = cleanRules(*f.Phone)
	}
	return rules, nil
}

// LoadRulesFile reads rules from path; an empty path returns the defaults.
func LoadRulesFile(path string) (Rules, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultRules(), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer fh.Close()
	return LoadRules(fh)
}

func cleanRules(v VetoRules) VetoRules {
	return VetoRules{
		Tokens:  cleanList(v.Tokens),
		Phrases: cleanList(v.Phrases),
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

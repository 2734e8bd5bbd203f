package accent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// Mumble is the accent given to anyone who cannot open their mouth.
	Mumble = "mumble"
	// ForgetfulWords is the replacement table the forgetful accent runs first.
	ForgetfulWords = "forgetful"
)

// Replacement is a replacement accent prototype. A non-empty Full list replaces the whole
// message with one of its entries; otherwise Words are substituted word by word.
type Replacement struct {
	Full  []string          `yaml:"full"`
	Words map[string]string `yaml:"words"`
}

// Forgetful tunes the forgetful accent.
type Forgetful struct {
	Prefixes     []string `yaml:"prefixes"`
	Suffixes     []string `yaml:"suffixes"`
	PrefixChance float64  `yaml:"prefix_chance"`
	SuffixChance float64  `yaml:"suffix_chance"`
}

// Table holds every accent the server knows about.
type Table struct {
	Replacements map[string]Replacement `yaml:"replacements"`
	Forgetful    Forgetful              `yaml:"forgetful"`
}

func DefaultTable() Table {
	return Table{
		Replacements: map[string]Replacement{
			Mumble: {Full: []string{"Mmmph!", "Mmmf mmph.", "Mmfph?", "Hmmph..."}},
			ForgetfulWords: {Words: map[string]string{
				"remember":  "recall",
				"thing":     "thingamajig",
				"name":      "whatsit",
				"where":     "where was it",
				"yesterday": "the other day",
			}},
		},
		Forgetful: Forgetful{
			Prefixes:     []string{"Uhh...", "Wait, what was I saying?"},
			Suffixes:     []string{"... I think.", "... or was it?", "... where am I?", "... what was that about?"},
			PrefixChance: 0.15,
			SuffixChance: 0.3,
		},
	}
}

// LoadTable reads accents from a YAML file on top of the built-in ones.
// Replacements with the same id are overridden; empty forgetful fields keep their defaults.
func LoadTable(path string) (Table, error) {
	t := DefaultTable()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read accent file: %w", err)
	}

	var file Table
	if err := yaml.Unmarshal(data, &file); err != nil {
		return t, fmt.Errorf("failed to parse accent file: %w", err)
	}

	for id, r := range file.Replacements {
		t.Replacements[id] = r
	}
	if len(file.Forgetful.Prefixes) > 0 {
		t.Forgetful.Prefixes = file.Forgetful.Prefixes
	}
	if len(file.Forgetful.Suffixes) > 0 {
		t.Forgetful.Suffixes = file.Forgetful.Suffixes
	}
	if file.Forgetful.PrefixChance > 0 {
		t.Forgetful.PrefixChance = file.Forgetful.PrefixChance
	}
	if file.Forgetful.SuffixChance > 0 {
		t.Forgetful.SuffixChance = file.Forgetful.SuffixChance
	}
	return t, nil
}

package accent

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"station-mods/internal/entity"
)

// Rand is the random source; *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Host tells which accents an entity speaks with.
type Host interface {
	ReplacementAccent(e entity.ID) (string, bool)
	Forgetful(e entity.ID) bool
}

type wordSet struct {
	re    *regexp.Regexp
	words map[string]string
}

// Accents rewrites speech.
type Accents struct {
	table Table
	rng   Rand
	words map[string]*wordSet
}

func New(table Table, rng Rand) *Accents {
	a := &Accents{table: table, rng: rng, words: make(map[string]*wordSet)}
	for id, r := range table.Replacements {
		if ws := compileWords(r.Words); ws != nil {
			a.words[id] = ws
		}
	}
	return a
}

// compileWords builds one alternation so a message is rewritten in a single pass.
// Longer keys come first so multi-word keys win over their parts.
func compileWords(words map[string]string) *wordSet {
	if len(words) == 0 {
		return nil
	}
	keys := make([]string, 0, len(words))
	lower := make(map[string]string, len(words))
	for k, v := range words {
		lk := strings.ToLower(k)
		keys = append(keys, lk)
		lower[lk] = v
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	re := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return &wordSet{re: re, words: lower}
}

// Has reports whether id names a known replacement accent.
func (a *Accents) Has(id string) bool {
	_, ok := a.table.Replacements[id]
	return ok
}

// ApplyReplacements runs the replacement accent id over message.
// Unknown accents leave the message untouched.
func (a *Accents) ApplyReplacements(message, id string) string {
	r, ok := a.table.Replacements[id]
	if !ok {
		return message
	}
	if len(r.Full) > 0 {
		return r.Full[a.rng.IntN(len(r.Full))]
	}
	ws, ok := a.words[id]
	if !ok {
		return message
	}
	return ws.re.ReplaceAllStringFunc(message, func(match string) string {
		return matchCase(match, ws.words[strings.ToLower(match)])
	})
}

// Forgetful makes the speaker lose their train of thought now and then.
func (a *Accents) Forgetful(message string) string {
	message = a.ApplyReplacements(message, ForgetfulWords)
	if message == "" {
		return message
	}
	f := a.table.Forgetful

	if len(f.Prefixes) > 0 && a.rng.Float64() < f.PrefixChance {
		prefix := f.Prefixes[a.rng.IntN(len(f.Prefixes))]
		message = prefix + " " + mapFirst(message, unicode.ToLower)
	}

	message = mapFirst(message, unicode.ToUpper)

	if len(f.Suffixes) > 0 && a.rng.Float64() < f.SuffixChance {
		message += f.Suffixes[a.rng.IntN(len(f.Suffixes))]
	}
	return message
}

// Apply runs a replacement accent (if any) and then the forgetful accent when asked to.
func (a *Accents) Apply(message, replacement string, forgetful bool) string {
	if replacement != "" {
		message = a.ApplyReplacements(message, replacement)
	}
	if forgetful {
		message = a.Forgetful(message)
	}
	return message
}

// System accentuates speech for entities.
type System struct {
	host    Host
	accents *Accents
}

func NewSystem(host Host, accents *Accents) *System {
	return &System{host: host, accents: accents}
}

// Accents is the accent table the system applies.
func (s *System) Accents() *Accents { return s.accents }

// Accentuate rewrites what e says according to the accents it carries.
func (s *System) Accentuate(e entity.ID, message string) string {
	replacement, _ := s.host.ReplacementAccent(e)
	return s.accents.Apply(message, replacement, s.host.Forgetful(e))
}

func mapFirst(s string, f func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(f(r)) + s[size:]
}

// matchCase shapes repl after the casing of the word it replaces.
func matchCase(original, repl string) string {
	if repl == "" {
		return repl
	}
	upper, letters := true, 0
	for _, r := range original {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				upper = false
			}
		}
	}
	switch {
	case letters > 1 && upper:
		return strings.ToUpper(repl)
	case startsUpper(original):
		return mapFirst(repl, unicode.ToUpper)
	}
	return repl
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

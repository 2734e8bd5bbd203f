package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	seqRe   = regexp.MustCompile(`-\s*(\d+)\s*$`)
	deckRe  = regexp.MustCompile(`(?i)(?:\bdeck\s*|\bd)?(\d+)\s*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// ParsedLabel holds the structured data parsed from a machine label such as "Dorms 2-1".
type ParsedLabel struct {
	Location string
	Deck     int
	Seq      int
}

// ParseLabel extracts location, deck and sequence number from a machine label.
// Deck and Seq are 0 when the label does not carry them.
func ParseLabel(raw string) (ParsedLabel, error) {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))

	// Optional "-N" suffix first, then the deck right before it.
	seq := 0
	if loc := seqRe.FindStringSubmatchIndex(s); loc != nil {
		if n, err := strconv.Atoi(s[loc[2]:loc[3]]); err == nil {
			seq = n
			s = strings.TrimSpace(s[:loc[0]])
		}
	}

	deck := 0
	location := s
	if loc := deckRe.FindStringSubmatchIndex(s); loc != nil {
		if n, err := strconv.Atoi(s[loc[2]:loc[3]]); err == nil {
			deck = n
			location = strings.TrimSpace(s[:loc[0]])
		}
	}

	if location == "" {
		return ParsedLabel{}, fmt.Errorf("unable to parse location from label: %q", raw)
	}
	return ParsedLabel{Location: location, Deck: deck, Seq: seq}, nil
}

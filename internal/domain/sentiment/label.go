package sentiment

import "strings"

// Label is a sentiment label. After Normalize it is one of Positive, Negative
// or Neutral, or the raw input passed through unchanged when unrecognized.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// Labels lists the canonical labels in display order
var Labels = [...]Label{Positive, Negative, Neutral}

// Valid reports whether l is one of the three canonical labels
func (l Label) Valid() bool {
	switch l {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

func (l Label) String() string {
	return string(l)
}

// TableVersion identifies the label table below. Bump it whenever an entry
// is added or changed so downstream consumers can tell mappings apart.
const TableVersion = 2

// labelTable maps every known localized/emoji variant to its canonical label.
// Keys are stored in their folded form (see foldKey).
var labelTable = buildTable(map[string]Label{
	// canonical
	"Positive": Positive,
	"Negative": Negative,
	"Neutral":  Neutral,

	// English with emoji suffix (VADER branch of the analysis service)
	"Positive 😊":  Positive,
	"Negative ☹️": Negative,
	"Neutral 😐":   Neutral,

	// Hindi with emoji suffix (multilingual BERT branch)
	"सकारात्मक 😊":  Positive,
	"नकारात्मक ☹️": Negative,
	"तटस्थ 😐":      Neutral,
})

func buildTable(entries map[string]Label) map[string]Label {
	table := make(map[string]Label, len(entries))
	for raw, label := range entries {
		table[foldKey(raw)] = label
	}
	return table
}

// foldKey trims surrounding whitespace and drops emoji variation selectors,
// so "☹️" (U+2639 U+FE0F) and "☹" (U+2639) resolve to the same entry.
func foldKey(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "\uFE0F", ""))
}

// Normalize maps a raw label from the analysis service to its canonical form.
// Unrecognized input is returned unchanged; callers check Valid() and must
// exclude such labels from typed counts.
func Normalize(raw string) Label {
	if label, ok := labelTable[foldKey(raw)]; ok {
		return label
	}
	return Label(raw)
}

// KnownVariants returns every raw string the table recognizes, in folded form
func KnownVariants() []string {
	variants := make([]string, 0, len(labelTable))
	for raw := range labelTable {
		variants = append(variants, raw)
	}
	return variants
}

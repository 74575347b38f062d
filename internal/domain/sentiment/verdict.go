package sentiment

// Verdict is the fake-news classification attached to a news article
type Verdict string

const (
	VerdictReal Verdict = "Real"
	VerdictFake Verdict = "Fake"
)

var verdictTable = buildVerdictTable(map[string]Verdict{
	"Real":        VerdictReal,
	"Fake":        VerdictFake,
	"Real News":   VerdictReal,
	"Fake News":   VerdictFake,
	"Real News ✅": VerdictReal,
	"Fake News ❌": VerdictFake,
})

func buildVerdictTable(entries map[string]Verdict) map[string]Verdict {
	table := make(map[string]Verdict, len(entries))
	for raw, verdict := range entries {
		table[foldKey(raw)] = verdict
	}
	return table
}

// NormalizeVerdict maps the service's verdict text to Real or Fake.
// ok is false for anything else.
func NormalizeVerdict(raw string) (Verdict, bool) {
	verdict, ok := verdictTable[foldKey(raw)]
	return verdict, ok
}

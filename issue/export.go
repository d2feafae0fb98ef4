package issue

import "encoding/json"

// catalogEntry is the JSON-serializable shape of one registry row, used by
// IDE/editor integrations that want the full diagnostic catalog up front
// rather than discovering codes only as issues are reported.
type catalogEntry struct {
	Code        string `json:"code"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	GoodExample string `json:"good_example,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
}

// Catalog renders the full issue registry as JSON, sorted by code name for
// a stable diff-friendly output.
func Catalog() ([]byte, error) {
	codes := AllCodes()
	entries := make([]catalogEntry, 0, len(codes))
	for _, code := range codes {
		e := registry[code]
		entries = append(entries, catalogEntry{
			Code:        e.name,
			Category:    string(e.category),
			Severity:    e.severity.String(),
			Description: e.description,
			GoodExample: e.goodExample,
			BadExample:  e.badExample,
		})
	}
	sortCatalog(entries)
	return json.MarshalIndent(entries, "", "  ")
}

func sortCatalog(entries []catalogEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Code < entries[j-1].Code; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// wireIssue is the JSON-serializable shape of a single reported Issue,
// without requiring the caller to resolve spans to line/column itself —
// that's the host's job via source.Position, kept out of this package to
// avoid a dependency cycle on a rendering layer.
type wireIssue struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	File     uint32 `json:"file"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
	FixHint  string `json:"fix_hint,omitempty"`
}

// MarshalReport renders a slice of Issues as the wire format consumed by
// editor integrations and CI report uploaders.
func MarshalReport(issues []Issue) ([]byte, error) {
	out := make([]wireIssue, len(issues))
	for i, iss := range issues {
		out[i] = wireIssue{
			Code:     iss.Code.String(),
			Severity: iss.Severity.String(),
			File:     uint32(iss.Primary.File),
			Start:    iss.Primary.Start,
			End:      iss.Primary.End,
			Message:  iss.Message,
			FixHint:  iss.FixHint,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

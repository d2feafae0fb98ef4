package engine

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/source"
)

// baselineKey identifies one previously-accepted issue by its code, the
// file it was reported in, and a hash of the few lines around its primary
// span rather than the span's offset itself, so the baseline survives
// unrelated edits that shift line numbers (spec §6, "hash-of-nearby-source").
type baselineKey struct {
	Code string
	Path string
	Hash uint64
}

// Baseline is an immutable snapshot of (code, file, near-source hash) ->
// count loaded once at Run start and consulted read-only to suppress
// issues already accepted at the time the baseline was generated.
type Baseline struct {
	counts map[baselineKey]int
}

type baselineEntry struct {
	Code  string `json:"code"`
	Path  string `json:"path"`
	Hash  string `json:"hash"`
	Count int    `json:"count"`
}

type baselineFile struct {
	Entries []baselineEntry `json:"entries"`
}

// LoadBaseline reads a baseline previously written by RegenerateBaseline. A
// missing file is reported as an error rather than treated as an empty
// baseline, so a misconfigured path doesn't silently disable baselining.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bf baselineFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, err
	}
	bl := &Baseline{counts: make(map[baselineKey]int, len(bf.Entries))}
	for _, e := range bf.Entries {
		hash, err := parseHash(e.Hash)
		if err != nil {
			continue
		}
		bl.counts[baselineKey{Code: e.Code, Path: e.Path, Hash: hash}] = e.Count
	}
	return bl, nil
}

// Filter drops every issue in issues that the baseline already accounts
// for, consuming one unit of the matching entry's count per match. An
// issue recurring more times than the baseline recorded still surfaces,
// on the theory that a new occurrence of an old code at the same spot is
// worth a second look (mirrors Psalm's counting baseline semantics).
func (bl *Baseline) Filter(issues []issue.Issue, files *source.Set) []issue.Issue {
	if bl == nil || len(bl.counts) == 0 {
		return issues
	}
	remaining := make(map[baselineKey]int, len(bl.counts))
	for k, v := range bl.counts {
		remaining[k] = v
	}
	out := make([]issue.Issue, 0, len(issues))
	for _, iss := range issues {
		key := nearSourceKey(iss, files)
		if n := remaining[key]; n > 0 {
			remaining[key] = n - 1
			continue
		}
		out = append(out, iss)
	}
	return out
}

// RegenerateBaseline writes every current issue to path in the baseline
// format Load/Filter understand, so a host can accept the current state of
// a codebase wholesale and only be warned about new issues from then on.
func RegenerateBaseline(path string, issues []issue.Issue, files *source.Set) error {
	counts := make(map[baselineKey]int)
	for _, iss := range issues {
		counts[nearSourceKey(iss, files)]++
	}
	entries := make([]baselineEntry, 0, len(counts))
	for k, n := range counts {
		entries = append(entries, baselineEntry{Code: k.Code, Path: k.Path, Hash: formatHash(k.Hash), Count: n})
	}
	sortBaselineEntries(entries)
	data, err := json.MarshalIndent(baselineFile{Entries: entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func nearSourceKey(iss issue.Issue, files *source.Set) baselineKey {
	file := files.Get(iss.Primary.File)
	return baselineKey{Code: iss.Code.String(), Path: file.Path, Hash: nearSourceHash(file, iss.Primary.Start)}
}

// nearSourceHash hashes the span's own line plus a fixed byte margin of
// surrounding text, trimmed of surrounding whitespace so reindentation and
// line-number drift from edits elsewhere in the file don't change the hash.
func nearSourceHash(file *source.File, offset int) uint64 {
	const margin = 80
	line := strings.TrimSpace(file.LineText(offset))
	context := strings.TrimSpace(file.Slice(offset-margin, offset+margin))
	h := fnv.New64a()
	h.Write([]byte(line))
	h.Write([]byte{0})
	h.Write([]byte(context))
	return h.Sum64()
}

func parseHash(s string) (uint64, error) {
	var h uint64
	_, err := fmt.Sscanf(s, "%x", &h)
	return h, err
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%x", h)
}

func sortBaselineEntries(entries []baselineEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && lessBaselineEntry(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func lessBaselineEntry(a, b baselineEntry) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	return a.Hash < b.Hash
}

package retrieval

import (
	"encoding/json"
	"strings"

	"github.com/deliveryos/recall/store"
)

// Phase is one of the seven fixed delivery-lifecycle stages used to bias
// ranking toward phase-relevant content.
type Phase string

const (
	PhaseDiscovery Phase = "Discovery"
	PhaseDesign    Phase = "Design"
	PhaseBuild     Phase = "Build"
	PhaseTest      Phase = "Test"
	PhaseUAT       Phase = "UAT"
	PhaseRelease   Phase = "Release"
	PhaseHypercare Phase = "Hypercare"
)

// phaseKeywords maps each phase to its keyword list. Matching is
// case-insensitive substring search over the candidate haystack.
var phaseKeywords = map[Phase][]string{
	PhaseDiscovery: {"discovery", "research", "interview", "insight"},
	PhaseDesign:    {"design", "wireframe", "prototype", "ux"},
	PhaseBuild:     {"build", "implementation", "dev", "develop", "coding"},
	PhaseTest:      {"test", "qa", "verification", "bug"},
	PhaseUAT:       {"uat", "user acceptance", "acceptance", "sign off"},
	PhaseRelease:   {"release", "launch", "deploy", "release notes"},
	PhaseHypercare: {"hypercare", "stabilization", "post-launch", "hotfix"},
}

// ParsePhase resolves a phase name case-insensitively. Unknown names return
// false and the retrieval proceeds without a phase hint.
func ParsePhase(s string) (Phase, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for phase := range phaseKeywords {
		if strings.EqualFold(string(phase), s) {
			return phase, true
		}
	}
	return "", false
}

// phaseHintScore computes the phase signal for one candidate: 1 when any
// phase keyword appears in the candidate's text or lineage, otherwise a
// source-type fallback for source types structurally tied to the phase,
// otherwise 0. Fallbacks apply only when no keyword matched.
func phaseHintScore(item *store.MemoryItem, phase Phase) float64 {
	if phase == "" {
		return 0
	}

	haystack := phaseHaystack(item)
	for _, keyword := range phaseKeywords[phase] {
		if strings.Contains(haystack, keyword) {
			return 1
		}
	}

	switch {
	case (phase == PhaseRelease || phase == PhaseUAT) && item.SourceType == store.SourceTypeCSVRelease:
		return 0.9
	case phase == PhaseDesign && item.SourceType == store.SourceTypeDocs:
		return 0.6
	case phase == PhaseDiscovery && item.SourceType == store.SourceTypeMeetings:
		return 0.6
	}
	return 0
}

// phaseHaystack builds the lower-cased text searched for phase keywords:
// the item text plus whatever lineage content is parseable (stringified
// JSON, explicit phase/title fields, joined tags).
func phaseHaystack(item *store.MemoryItem) string {
	var b strings.Builder
	b.WriteString(item.Text)

	switch lineage := item.Lineage.(type) {
	case nil:
	case string:
		b.WriteString(" ")
		b.WriteString(lineage)
	default:
		if raw, err := json.Marshal(lineage); err == nil {
			b.WriteString(" ")
			b.Write(raw)
		}
		if m, ok := lineage.(map[string]any); ok {
			if phase, ok := m["phase"].(string); ok {
				b.WriteString(" ")
				b.WriteString(phase)
			}
			if title, ok := m["title"].(string); ok {
				b.WriteString(" ")
				b.WriteString(title)
			}
			if tags, ok := m["tags"].([]any); ok {
				for _, tag := range tags {
					if s, ok := tag.(string); ok {
						b.WriteString(" ")
						b.WriteString(s)
					}
				}
			}
		}
	}

	return strings.ToLower(b.String())
}

package project

import (
	"fmt"
	"strings"
)

// Normalize applies the defaulting rules every Project goes through, whether
// it came from the API, the canned dataset, or a synthesized upload.
// Scores are clamped to [0,100], negative counts become zero, unknown statuses
// become Pending, and a missing name is derived from the filename.
// ValidatedElements is not capped at TotalElements.
func Normalize(p Project) (Project, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return Project{}, fmt.Errorf("%w: missing id", ErrInvalidProject)
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DisplayName(p.Filename)
	}
	p.HealthScore = clamp(p.HealthScore, 0, 100)
	if !p.Status.Valid() {
		p.Status = ParseStatus(string(p.Status))
	}
	p.TotalElements = nonNegative(p.TotalElements)
	p.ValidatedElements = nonNegative(p.ValidatedElements)
	p.Issues = IssueCounts{
		Critical: nonNegative(p.Issues.Critical),
		Warning:  nonNegative(p.Issues.Warning),
		Info:     nonNegative(p.Issues.Info),
	}
	return p, nil
}

// NormalizeAll normalizes a collection in order. Records with a duplicate id
// are dropped after the first occurrence and reported in dropped.
func NormalizeAll(in []Project) (out []Project, dropped []string, err error) {
	out = make([]Project, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, p := range in {
		np, err := Normalize(p)
		if err != nil {
			return nil, nil, fmt.Errorf("project %d: %w", i, err)
		}
		if _, dup := seen[np.ID]; dup {
			dropped = append(dropped, np.ID)
			continue
		}
		seen[np.ID] = struct{}{}
		out = append(out, np)
	}
	return out, dropped, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

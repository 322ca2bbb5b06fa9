package exam

import "exam-byte/internal/domain"

// PaletteState is the display status of one question in the palette.
type PaletteState string

const (
	StateAnswered PaletteState = "answered"
	StateVisited  PaletteState = "visited"
	StateFresh    PaletteState = "fresh"
)

// Group is a contiguous run of questions sharing section and type.
type Group struct {
	Key     string
	Label   string
	Indices []int
}

func groupKey(q domain.Question) (key, label string) {
	section := q.SectionLabel()
	if q.IsNumericalType() {
		return section + "_num", section + " · Numerical"
	}
	return section + "_mcq", section + " · Single Correct"
}

// BuildGroups walks the questions once and starts a new group whenever the
// (section, numerical) pair changes.
func BuildGroups(questions []domain.Question) []Group {
	var groups []Group
	for i, q := range questions {
		key, label := groupKey(q)
		if len(groups) == 0 || groups[len(groups)-1].Key != key {
			groups = append(groups, Group{Key: key, Label: label})
		}
		cur := &groups[len(groups)-1]
		cur.Indices = append(cur.Indices, i)
	}
	return groups
}

// StateOf derives the palette state for index i.
func StateOf(i int, answers map[int]string, visited map[int]struct{}) PaletteState {
	if v, ok := answers[i]; ok && v != "" {
		return StateAnswered
	}
	if _, ok := visited[i]; ok {
		return StateVisited
	}
	return StateFresh
}

// AnsweredCount counts non-empty answers.
func AnsweredCount(answers map[int]string) int {
	n := 0
	for _, v := range answers {
		if v != "" {
			n++
		}
	}
	return n
}

// Stats is the sidebar summary.
type Stats struct {
	Done int
	Seen int
	Left int
}

// ComputeStats derives the sidebar summary from session state.
func ComputeStats(total int, answers map[int]string, visited map[int]struct{}) Stats {
	done := AnsweredCount(answers)
	seen := len(visited) - done
	if seen < 0 {
		seen = 0
	}
	return Stats{Done: done, Seen: seen, Left: total - len(visited)}
}

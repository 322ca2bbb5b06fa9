package exam

import (
	"testing"

	"exam-byte/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(section string) domain.Question {
	return domain.Question{Section: section, Options: map[string]string{"A": "a", "B": "b"}}
}

func numerical(section string) domain.Question {
	return domain.Question{Section: section, IsNumerical: true}
}

func TestBuildGroups_ContiguousRuns(t *testing.T) {
	questions := []domain.Question{
		mcq("Physics"), mcq("Physics"),
		numerical("Physics"),
		mcq("Chemistry"),
		mcq("Physics"),
		{Options: map[string]string{}},
	}

	groups := BuildGroups(questions)
	require.Len(t, groups, 5)

	assert.Equal(t, "Physics_mcq", groups[0].Key)
	assert.Equal(t, "Physics · Single Correct", groups[0].Label)
	assert.Equal(t, []int{0, 1}, groups[0].Indices)

	assert.Equal(t, "Physics · Numerical", groups[1].Label)
	assert.Equal(t, []int{2}, groups[1].Indices)

	assert.Equal(t, "Chemistry_mcq", groups[2].Key)

	// A section seen earlier starts a new group when it reappears.
	assert.Equal(t, "Physics_mcq", groups[3].Key)
	assert.Equal(t, []int{4}, groups[3].Indices)

	// No section and no options: General, numerical.
	assert.Equal(t, "General · Numerical", groups[4].Label)
}

func TestBuildGroups_Empty(t *testing.T) {
	assert.Empty(t, BuildGroups(nil))
}

func TestStateOf(t *testing.T) {
	answers := map[int]string{0: "A", 2: ""}
	visited := map[int]struct{}{0: {}, 1: {}, 2: {}}

	assert.Equal(t, StateAnswered, StateOf(0, answers, visited))
	assert.Equal(t, StateVisited, StateOf(1, answers, visited))
	assert.Equal(t, StateVisited, StateOf(2, answers, visited), "empty value is not an answer")
	assert.Equal(t, StateFresh, StateOf(3, answers, visited))
}

func TestComputeStats(t *testing.T) {
	answers := map[int]string{0: "A", 1: "B"}
	visited := map[int]struct{}{0: {}, 1: {}, 2: {}, 5: {}}

	stats := ComputeStats(10, answers, visited)
	assert.Equal(t, Stats{Done: 2, Seen: 2, Left: 6}, stats)
	assert.Equal(t, 10, stats.Done+stats.Seen+stats.Left)
}

func TestAnsweredCount_IgnoresEmpty(t *testing.T) {
	assert.Equal(t, 1, AnsweredCount(map[int]string{0: "A", 1: ""}))
}

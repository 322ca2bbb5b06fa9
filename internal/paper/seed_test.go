package paper

import (
	"context"
	"errors"
	"testing"

	"exam-byte/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePapers(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		papers, err := DecodePapers([]byte(`[{"id":"a","questions":[{"text":"q"}]},{"id":"b","questions":[{"text":"q"}]}]`))
		require.NoError(t, err)
		require.Len(t, papers, 2)
		assert.Equal(t, "b", papers[1].ID)
	})

	t.Run("string numbers", func(t *testing.T) {
		papers, err := DecodePapers([]byte(`[{"id":"p1","duration":"60","questions":[{"number":"1","text":"q"}]}]`))
		require.NoError(t, err)
		assert.Equal(t, 60, papers[0].Duration)
		assert.Equal(t, 1, papers[0].Questions[0].Number)
	})

	t.Run("single object", func(t *testing.T) {
		papers, err := DecodePapers([]byte(` {"id":"a","duration":30,"questions":[{"text":"q"}]}`))
		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, 30, papers[0].Duration)
	})

	for name, input := range map[string]string{
		"empty":        "  ",
		"missing id":   `[{"questions":[{"text":"q"}]}]`,
		"no questions": `{"id":"a","questions":[]}`,
		"bad json":     `[{"id":`,
		"spaced id":    `[{"id":"jee.main 2024","questions":[{"text":"q"}]}]`,
		"path id":      `{"id":"../a","questions":[{"text":"q"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePapers([]byte(input))
			assert.Error(t, err)
		})
	}
}

type sinkFunc func(ctx context.Context, p *domain.Paper) error

func (f sinkFunc) SavePaper(ctx context.Context, p *domain.Paper) error { return f(ctx, p) }

func TestUpload(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	store := NewRedisStore(c, "")
	failing := sinkFunc(func(ctx context.Context, p *domain.Paper) error { return errors.New("ORA-00942") })

	saved, err := Upload(ctx, []*domain.Paper{stored("a", 1), stored("b", 1)}, map[string]Sink{
		"redis":  store,
		"oracle": failing,
	})
	assert.Equal(t, 2, saved)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")

	latest, err := store.FetchPaper(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
}

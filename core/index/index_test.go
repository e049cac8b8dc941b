package index

import (
	"testing"

	"github.com/siherrmann/trailrag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexPassages() []*model.Passage {
	return []*model.Passage{
		{ID: "doc::p0", Text: "radioactivity research in Paris"},
		{ID: "doc::p1", Text: "the Nobel Prize for radioactivity"},
		{ID: "doc::p2", Text: "codebreaking at Bletchley Park"},
	}
}

func TestTokenize(t *testing.T) {
	t.Run("Lowercases and splits on non-alphanumerics", func(t *testing.T) {
		assert.Equal(t, []string{"marie", "curie", "1903"}, Tokenize("Marie-Curie, 1903!"))
	})

	t.Run("Empty text yields no tokens", func(t *testing.T) {
		assert.Empty(t, Tokenize("   ..."))
	})
}

func TestBuild(t *testing.T) {
	t.Run("Indexes every passage", func(t *testing.T) {
		idx := Build(indexPassages())

		assert.Equal(t, 3, idx.Len())
		for _, passage := range indexPassages() {
			vector, ok := idx.Vector(passage.ID)
			require.True(t, ok)
			assert.False(t, vector.IsZero())
		}
	})

	t.Run("Rarer terms get higher weights", func(t *testing.T) {
		idx := Build(indexPassages())

		vector, ok := idx.Vector("doc::p0")
		require.True(t, ok)
		// "paris" appears in one passage, "radioactivity" in two
		assert.Greater(t, vector["paris"], vector["radioactivity"])
	})

	t.Run("Building twice yields identical vectors", func(t *testing.T) {
		first := Build(indexPassages())
		second := Build(indexPassages())

		for _, passage := range indexPassages() {
			firstVector, _ := first.Vector(passage.ID)
			secondVector, _ := second.Vector(passage.ID)
			assert.Equal(t, firstVector, secondVector)
		}
	})

	t.Run("Empty corpus builds an empty index", func(t *testing.T) {
		idx := Build(nil)

		assert.Equal(t, 0, idx.Len())
		assert.Equal(t, 0, idx.Dimension())
	})
}

func TestEmbed(t *testing.T) {
	idx := Build(indexPassages())

	t.Run("Out-of-vocabulary terms are dropped", func(t *testing.T) {
		vector, err := idx.Embed("radioactivity zzzunknown")

		require.NoError(t, err)
		assert.Contains(t, vector, "radioactivity")
		assert.NotContains(t, vector, "zzzunknown")
	})

	t.Run("No vocabulary overlap yields the zero vector", func(t *testing.T) {
		vector, err := idx.Embed("completely unrelated words")

		require.NoError(t, err)
		assert.True(t, vector.IsZero())
	})

	t.Run("Same text embeds identically", func(t *testing.T) {
		first, err := idx.Embed("radioactivity in Paris")
		require.NoError(t, err)
		second, err := idx.Embed("radioactivity in Paris")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestScores(t *testing.T) {
	idx := Build(indexPassages())

	t.Run("Orders by similarity descending", func(t *testing.T) {
		query, err := idx.Embed("radioactivity research in Paris")
		require.NoError(t, err)

		scored := idx.Scores(query)

		require.Len(t, scored, 3)
		assert.Equal(t, "doc::p0", scored[0].PassageID)
		for i := 1; i < len(scored); i++ {
			assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
		}
	})

	t.Run("Zero vector scores everything zero with id-ascending order", func(t *testing.T) {
		scored := idx.Scores(model.Vector{})

		require.Len(t, scored, 3)
		assert.Equal(t, []Scored{
			{PassageID: "doc::p0", Score: 0},
			{PassageID: "doc::p1", Score: 0},
			{PassageID: "doc::p2", Score: 0},
		}, scored)
	})
}

func TestTopK(t *testing.T) {
	idx := Build(indexPassages())

	t.Run("Truncates to k", func(t *testing.T) {
		query, err := idx.Embed("radioactivity")
		require.NoError(t, err)

		scored := idx.TopK(query, 2)

		assert.Len(t, scored, 2)
	})

	t.Run("K larger than corpus returns all passages", func(t *testing.T) {
		query, err := idx.Embed("radioactivity")
		require.NoError(t, err)

		scored := idx.TopK(query, 10)

		assert.Len(t, scored, 3)
	})
}

func TestDense(t *testing.T) {
	idx := Build(indexPassages())

	t.Run("Materializes over the frozen vocabulary", func(t *testing.T) {
		dense, ok := idx.Dense("doc::p0")

		require.True(t, ok)
		assert.Len(t, dense, idx.Dimension())

		nonZero := 0
		for _, v := range dense {
			if v != 0 {
				nonZero++
			}
		}
		assert.Equal(t, 4, nonZero, "One weight per distinct term of the passage")
	})

	t.Run("Unknown passage", func(t *testing.T) {
		_, ok := idx.Dense("missing")
		assert.False(t, ok)
	})
}

func TestBuildWithEmbedder(t *testing.T) {
	t.Run("Uses the custom encoder for passages and queries", func(t *testing.T) {
		embed := func(text string) (model.Vector, error) {
			return model.Vector{"len": float64(len(text))}, nil
		}

		idx, err := BuildWithEmbedder(indexPassages(), embed)

		require.NoError(t, err)
		assert.Equal(t, 3, idx.Len())
		assert.Equal(t, 1, idx.Dimension())

		query, err := idx.Embed("abc")
		require.NoError(t, err)
		assert.Equal(t, model.Vector{"len": 3}, query)
	})

	t.Run("Encoder errors propagate", func(t *testing.T) {
		embed := func(text string) (model.Vector, error) {
			return nil, assert.AnError
		}

		_, err := BuildWithEmbedder(indexPassages(), embed)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

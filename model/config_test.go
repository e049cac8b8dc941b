package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultQueryConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultQueryConfig()

		assert.Equal(t, 5, config.TopK, "Default TopK should be 5")
		assert.Equal(t, 2, config.MaxGraphHops, "Default MaxGraphHops should be 2")
		assert.Equal(t, 0.3, config.GraphWeight, "Default GraphWeight should be 0.3")
	})

	t.Run("Defaults pass validation", func(t *testing.T) {
		config := DefaultQueryConfig()

		assert.NoError(t, config.Validate())
	})

	t.Run("Can be modified after creation", func(t *testing.T) {
		config := DefaultQueryConfig()

		config.TopK = 10
		config.MaxGraphHops = 3
		config.GraphWeight = 0.5

		assert.NoError(t, config.Validate())
		assert.Equal(t, 10, config.TopK)
	})
}

func TestQueryConfigValidate(t *testing.T) {
	t.Run("Zero TopK", func(t *testing.T) {
		config := QueryConfig{TopK: 0, MaxGraphHops: 1, GraphWeight: 0.3}

		err := config.Validate()

		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "top_k")
	})

	t.Run("Negative TopK", func(t *testing.T) {
		config := QueryConfig{TopK: -3, MaxGraphHops: 1, GraphWeight: 0.3}

		assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
	})

	t.Run("Negative hop budget", func(t *testing.T) {
		config := QueryConfig{TopK: 5, MaxGraphHops: -1, GraphWeight: 0.3}

		err := config.Validate()

		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "max_graph_hops")
	})

	t.Run("Zero hop budget is valid", func(t *testing.T) {
		config := QueryConfig{TopK: 5, MaxGraphHops: 0, GraphWeight: 0.3}

		assert.NoError(t, config.Validate())
	})

	t.Run("Graph weight below range", func(t *testing.T) {
		config := QueryConfig{TopK: 5, MaxGraphHops: 1, GraphWeight: -0.1}

		assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
	})

	t.Run("Graph weight above range", func(t *testing.T) {
		config := QueryConfig{TopK: 5, MaxGraphHops: 1, GraphWeight: 1.1}

		assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
	})

	t.Run("Boundary graph weights are valid", func(t *testing.T) {
		zero := QueryConfig{TopK: 5, MaxGraphHops: 1, GraphWeight: 0}
		one := QueryConfig{TopK: 5, MaxGraphHops: 1, GraphWeight: 1}

		assert.NoError(t, zero.Validate())
		assert.NoError(t, one.Validate())
	})
}

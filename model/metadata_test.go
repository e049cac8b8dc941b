package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue(t *testing.T) {
	t.Run("Marshals to JSON bytes", func(t *testing.T) {
		m := Metadata{"topic": "radioactivity", "year": 1903}

		value, err := m.Value()

		require.NoError(t, err)
		assert.JSONEq(t, `{"topic":"radioactivity","year":1903}`, string(value.([]byte)))
	})

	t.Run("Nil metadata marshals to null", func(t *testing.T) {
		var m Metadata

		value, err := m.Value()

		require.NoError(t, err)
		assert.Equal(t, "null", string(value.([]byte)))
	})
}

func TestMetadataScan(t *testing.T) {
	t.Run("Scans JSON bytes", func(t *testing.T) {
		var m Metadata

		err := m.Scan([]byte(`{"topic":"radioactivity"}`))

		require.NoError(t, err)
		assert.Equal(t, "radioactivity", m["topic"])
	})

	t.Run("Nil value scans to empty metadata", func(t *testing.T) {
		var m Metadata

		err := m.Scan(nil)

		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.Empty(t, m)
	})

	t.Run("Metadata value scans directly", func(t *testing.T) {
		var m Metadata

		err := m.Scan(Metadata{"key": "value"})

		require.NoError(t, err)
		assert.Equal(t, "value", m["key"])
	})

	t.Run("Unsupported type fails", func(t *testing.T) {
		var m Metadata

		err := m.Scan(42)

		assert.Error(t, err)
	})

	t.Run("Invalid JSON fails", func(t *testing.T) {
		var m Metadata

		err := m.Scan([]byte(`{not json`))

		assert.Error(t, err)
	})
}

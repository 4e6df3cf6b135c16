package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItem(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		err := ValidateItem(&Item{Key: "lots/a.jpg"})
		assert.NoError(t, err)
	})

	t.Run("nil item", func(t *testing.T) {
		err := ValidateItem(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("empty key", func(t *testing.T) {
		err := ValidateItem(&Item{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidItem)
		assert.ErrorIs(t, err, ErrEmptyItemKey)
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		err := ValidateItem(&Item{Key: "lots/a.jpg", SaleDate: "TBD"})
		assert.NoError(t, err, "bad dates degrade categorization, not validity")
	})
}

func TestValidateMatchSet(t *testing.T) {
	t.Run("nil set is valid", func(t *testing.T) {
		assert.NoError(t, ValidateMatchSet("lots/a.jpg", nil))
	})

	t.Run("within caps", func(t *testing.T) {
		set := &MatchSet{Overall: make([]Match, SlotsPerCategory)}
		assert.NoError(t, ValidateMatchSet("lots/a.jpg", set))
	})

	t.Run("over cap", func(t *testing.T) {
		set := &MatchSet{SameDay: make([]Match, SlotsPerCategory+1)}
		err := ValidateMatchSet("lots/a.jpg", set)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTooManyMatches)
	})

	t.Run("self match", func(t *testing.T) {
		set := &MatchSet{Before: []Match{{Key: "lots/a.jpg"}}}
		err := ValidateMatchSet("lots/a.jpg", set)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSelfMatch)
	})
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, ItemKey("lots/2023/a.jpg"), NormalizeKey(`lots\2023\a.jpg`))
	assert.Equal(t, ItemKey("lots/2023/a.jpg"), NormalizeKey("lots/2023/a.jpg"))
	assert.Equal(t, ItemKey(""), NormalizeKey(""))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "overall", CategoryOverall.String())
	assert.Equal(t, "same_day", CategorySameDay.String())
	assert.Equal(t, "before", CategoryBefore.String())
	assert.Equal(t, "unknown", Category(99).String())
}

func TestMatchSet_Full(t *testing.T) {
	five := make([]Match, SlotsPerCategory)

	assert.False(t, (&MatchSet{}).Full())
	assert.False(t, (&MatchSet{Overall: five, SameDay: five}).Full())
	assert.True(t, (&MatchSet{Overall: five, SameDay: five, Before: five}).Full())
}

func TestMatchSet_Matches(t *testing.T) {
	set := &MatchSet{
		Overall: []Match{{Key: "a"}},
		SameDay: []Match{{Key: "b"}},
		Before:  []Match{{Key: "c"}},
	}

	assert.Equal(t, ItemKey("a"), set.Matches(CategoryOverall)[0].Key)
	assert.Equal(t, ItemKey("b"), set.Matches(CategorySameDay)[0].Key)
	assert.Equal(t, ItemKey("c"), set.Matches(CategoryBefore)[0].Key)
	assert.Nil(t, set.Matches(Category(99)))
}

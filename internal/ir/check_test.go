package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheck_MarkCheckedOnce(t *testing.T) {
	c := Check{ID: 1, Name: "Mushroom", Offset: 0xF411, Mask: 0x10}
	t1 := time.Unix(100, 0)
	t2 := time.Unix(200, 0)

	assert.True(t, c.MarkChecked(t1))
	assert.True(t, c.Checked)
	assert.Equal(t, t1, c.CheckedAt)

	assert.False(t, c.MarkChecked(t2))
	assert.Equal(t, t1, c.CheckedAt)
}

func TestCheck_ProgressIsMonotonic(t *testing.T) {
	c := Check{ID: 2, Name: "Bow", Progressive: true}
	values := []uint8{1, 3, 2, 0, 3, 4}
	wantIncrease := []bool{true, true, false, false, false, true}

	var level uint8
	var last time.Time
	for i, v := range values {
		at := time.Unix(int64(i), 0)
		assert.Equal(t, wantIncrease[i], c.Progress(v, at), "value %d", v)
		assert.GreaterOrEqual(t, c.ProgressiveLevel, level)
		level = c.ProgressiveLevel
		if wantIncrease[i] {
			last = at
		}
		assert.Equal(t, last, c.CheckedAt, "timestamp of the latest increase")
	}
	assert.Equal(t, uint8(4), c.ProgressiveLevel)
}

func TestCheck_OccurCountsEveryTime(t *testing.T) {
	c := Check{ID: 1, Name: "Dash", Kind: KindAction}
	for i := 1; i <= 300; i++ {
		assert.True(t, c.Occur(time.Unix(int64(i), 0)))
	}
	assert.Equal(t, 300, c.Count)
	assert.Equal(t, time.Unix(300, 0), c.CheckedAt)
}

func TestCheck_Reset(t *testing.T) {
	c := Check{ID: 3, Progressive: true}
	c.Progress(2, time.Unix(1, 0))
	c.Occur(time.Unix(2, 0))
	c.MarkChecked(time.Unix(3, 0))

	c.Reset()
	assert.False(t, c.Checked)
	assert.Zero(t, c.ProgressiveLevel)
	assert.Zero(t, c.Count)
	assert.True(t, c.CheckedAt.IsZero())
}

func TestCheck_HasConditions(t *testing.T) {
	assert.False(t, (&Check{}).HasConditions())
	assert.True(t, (&Check{Conditions: []Condition{}}).HasConditions())
}

func TestCloneChecks_Independent(t *testing.T) {
	orig := []Check{{ID: 1}, {ID: 2}}
	cp := CloneChecks(orig)
	cp[0].MarkChecked(time.Unix(1, 0))

	assert.False(t, orig[0].Checked)
	assert.Nil(t, CloneChecks(nil))
}

func TestCheckKind_String(t *testing.T) {
	assert.Equal(t, "location", KindLocation.String())
	assert.Equal(t, "item", KindItem.String())
	assert.Equal(t, "event", KindEvent.String())
	assert.Equal(t, "action", KindAction.String())
	assert.Equal(t, "unknown", CheckKind(0).String())
}

package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotimer/internal/condition"
	"github.com/roach88/autotimer/internal/eventlog"
	"github.com/roach88/autotimer/internal/ir"
)

func TestClassify(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classify(nil, "item", 1))
	})

	t.Run("unsupported", func(t *testing.T) {
		err := classify(&condition.UnsupportedError{Kind: ir.CondBitwiseTrue, Offset: 0x10}, "event", 4)
		assert.True(t, IsFatal(err))
		assert.True(t, IsUnsupportedCondition(err))
		assert.False(t, IsMissingTransition(err))
		assert.Equal(t,
			"UNSUPPORTED_CONDITION: unsupported condition BitWiseTrue at offset 0x10 (event 4)",
			err.Error())
	})

	t.Run("missing transition through wrapping", func(t *testing.T) {
		err := classify(fmt.Errorf("PreviousTile: %w", eventlog.ErrNoTransition), "location", 7)
		assert.True(t, IsMissingTransition(err))
		assert.ErrorIs(t, err, eventlog.ErrNoTransition)

		var re *RuntimeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "location", re.Kind)
		assert.Equal(t, 7, re.ID)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("boom")
		err := classify(plain, "item", 1)
		assert.Same(t, plain, err)
		assert.False(t, IsFatal(err))
	})

	t.Run("joined fatal is still fatal", func(t *testing.T) {
		err := errors.Join(errors.New("sink"), classify(eventlog.ErrNoTransition, "transition", 0))
		assert.True(t, IsFatal(err))
	})
}

func TestRuntimeError_WithoutEntity(t *testing.T) {
	err := &RuntimeError{Code: ErrCodeMissingTransition, Message: "empty log"}
	assert.Equal(t, "MISSING_TRANSITION: empty log", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestCommandSlot(t *testing.T) {
	var s commandSlot
	assert.Equal(t, CommandNone, s.Take())

	s.Submit(CommandClearEventLog)
	assert.Equal(t, CommandClearEventLog, s.Take())
	assert.Equal(t, CommandNone, s.Take(), "a command is consumed once")

	assert.Equal(t, "clear_event_log", CommandClearEventLog.String())
	assert.Equal(t, "post_credits", PostCredits.String())
}

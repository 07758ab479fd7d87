package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalTrace_Canonical(t *testing.T) {
	outdoors := false
	result := NewResult()
	result.State = "in_game"
	result.AddTrace(TraceEvent{Seq: 1, Session: "s", Kind: "transition", ID: 2, Name: "Link's House Area", Indoors: &outdoors, AtMS: 250})
	result.AddTrace(TraceEvent{Seq: 2, Session: "s", Kind: "item_get", ID: 7, AtMS: 500})

	out, err := MarshalTrace("sample", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"sample","state":"in_game","trace":[`+
			`{"at_ms":250,"id":2,"indoors":false,"kind":"transition","name":"Link's House Area","seq":1,"session":"s"},`+
			`{"at_ms":500,"id":7,"kind":"item_get","seq":2,"session":"s"}]}`,
		string(out))
}

func TestMarshalTrace_EmptyTrace(t *testing.T) {
	result := NewResult()
	result.State = "not_started"

	out, err := MarshalTrace("empty", result)
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"empty","state":"not_started","trace":[]}`, string(out))
}

func TestAssertGolden_Stored(t *testing.T) {
	result, err := Run(loadTestScenario(t, "end_credits"))
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "end_credits", result))
}

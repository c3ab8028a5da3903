package actualize

import (
	"encoding/json"
	"testing"

	"github.com/specialistvlad/objectmomma/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	testCases := []struct {
		in   string
		want Strategy
	}{
		{in: "create", want: Create},
		{in: "find", want: Find},
		{in: "find_or_create", want: FindOrCreate},
		{in: "spawn", want: FindOrCreate},
		{in: "  Create ", want: Create},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStrategy(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseStrategy("destroy")
	assert.ErrorIs(t, err, fault.ErrInvalidStrategy)
}

func TestStrategy_Validate(t *testing.T) {
	for _, s := range []Strategy{Create, Find, FindOrCreate} {
		assert.NoError(t, s.Validate(), s.String())
	}
	for _, s := range []Strategy{0, 4, -1} {
		err := s.Validate()
		assert.ErrorIs(t, err, fault.ErrInvalidStrategy)
		assert.Equal(t, fault.InvalidStrategy, fault.KindOf(err))
	}
	assert.Equal(t, "Strategy(0)", Strategy(0).String())
}

func TestStrategy_Text(t *testing.T) {
	out, err := json.Marshal(map[string]Strategy{"s": FindOrCreate})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"find_or_create"}`, string(out))

	var in struct{ S Strategy }
	require.NoError(t, json.Unmarshal([]byte(`{"S":"spawn"}`), &in))
	assert.Equal(t, FindOrCreate, in.S)

	assert.Error(t, json.Unmarshal([]byte(`{"S":"nope"}`), &in))

	_, err = Strategy(0).MarshalText()
	assert.ErrorIs(t, err, fault.ErrInvalidStrategy)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(99).String())
}

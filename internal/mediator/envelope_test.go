package mediator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelope(t *testing.T) {
	env := Success("created timeline", map[string]interface{}{"name": "Timeline 2"})

	assert.Equal(t, StatusSuccess, env.Status)
	assert.False(t, env.IsError())
	assert.Empty(t, env.Code, "success never carries a code")
	assert.Nil(t, env.Context)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "code", "code omitted from success JSON")
	assert.NotContains(t, decoded, "context")
}

func TestFailureEnvelope(t *testing.T) {
	env := Failure(CodeValidation, "track_index must be at least 1", map[string]interface{}{
		"parameter": "track_index",
	})

	assert.Equal(t, StatusError, env.Status)
	assert.True(t, env.IsError())
	assert.Equal(t, CodeValidation, env.Code)
	assert.Nil(t, env.Data)
}

func TestFailureDefaultsToInternalCode(t *testing.T) {
	env := Failure("", "something broke", nil)
	assert.Equal(t, CodeInternal, env.Code)
}

func TestInfoEnvelope(t *testing.T) {
	env := Info("not connected", map[string]interface{}{"connected": false})

	assert.Equal(t, StatusInfo, env.Status)
	assert.False(t, env.IsError())
	assert.Empty(t, env.Code)
}

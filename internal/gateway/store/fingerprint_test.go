package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	base, err := Fingerprint("echo", json.RawMessage(`{"a":1,"b":"x"}`), "key-1")
	require.NoError(t, err)
	require.Len(t, base, 64)

	tests := []struct {
		name   string
		op     string
		params string
		key    string
		same   bool
	}{
		{
			name:   "identical request",
			op:     "echo",
			params: `{"a":1,"b":"x"}`,
			key:    "key-1",
			same:   true,
		},
		{
			name:   "different key order",
			op:     "echo",
			params: `{"b":"x","a":1}`,
			key:    "key-1",
			same:   true,
		},
		{
			name:   "different whitespace",
			op:     "echo",
			params: `{ "a": 1, "b": "x" }`,
			key:    "key-1",
			same:   true,
		},
		{
			name:   "different idempotency key",
			op:     "echo",
			params: `{"a":1,"b":"x"}`,
			key:    "key-2",
			same:   false,
		},
		{
			name:   "absent idempotency key",
			op:     "echo",
			params: `{"a":1,"b":"x"}`,
			key:    "",
			same:   false,
		},
		{
			name:   "different operation",
			op:     "digest",
			params: `{"a":1,"b":"x"}`,
			key:    "key-1",
			same:   false,
		},
		{
			name:   "different params",
			op:     "echo",
			params: `{"a":2,"b":"x"}`,
			key:    "key-1",
			same:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fingerprint(tt.op, json.RawMessage(tt.params), tt.key)
			require.NoError(t, err)

			if tt.same {
				assert.Equal(t, base, got)
			} else {
				assert.NotEqual(t, base, got)
			}
		})
	}
}

func TestFingerprint_AbsentParams(t *testing.T) {
	missing, err := Fingerprint("echo", nil, "key-1")
	require.NoError(t, err)

	null, err := Fingerprint("echo", json.RawMessage(`null`), "key-1")
	require.NoError(t, err)

	assert.Equal(t, missing, null)
}

func TestFingerprint_MalformedParams(t *testing.T) {
	_, err := Fingerprint("echo", json.RawMessage(`{"a":`), "key-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed params")
}

func TestFingerprint_NestedCanonicalization(t *testing.T) {
	first, err := Fingerprint("echo", json.RawMessage(`{"outer":{"x":1,"y":[1,2]}}`), "")
	require.NoError(t, err)

	second, err := Fingerprint("echo", json.RawMessage(`{"outer":{"y":[1,2],"x":1}}`), "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

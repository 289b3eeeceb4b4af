package bot

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want callback
		ok   bool
	}{
		{"m:home", callback{verb: verbHome}, true},
		{"m:day:abc", callback{verb: verbDay, arg: "abc"}, true},
		{"m:shift:dinner", callback{verb: verbAddShift, arg: "dinner"}, true},
		{"m:rmitem:a:b", callback{verb: verbRemoveItem, arg: "a:b"}, true},
		{"m:bogus:1", callback{}, false},
		{"m:", callback{}, false},
		{"adder:add:food", callback{}, false},
		{"", callback{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := parseCallback(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallbackString_RoundTrips(t *testing.T) {
	for verb := range knownVerbs {
		for _, arg := range []string{"", uuid.NewString()} {
			cb := callback{verb: verb, arg: arg}
			got, ok := parseCallback(cb.String())
			assert.True(t, ok, cb.String())
			assert.Equal(t, cb, got)
			assert.LessOrEqual(t, len(cb.String()), 64, "telegram limits callback data to 64 bytes")
		}
	}
}

func TestCommandCallbacksAreKnown(t *testing.T) {
	for cmd, cb := range commandCallbacks {
		assert.True(t, knownVerbs[cb.verb], cmd)
	}
}

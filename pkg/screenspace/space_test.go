package screenspace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpace(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr bool
	}{
		{"full hd", 1920, 1080, false},
		{"single pixel", 1, 1, false},
		{"zero width", 0, 10, true},
		{"zero height", 10, 0, true},
		{"negative", -5, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSpace(tt.width, tt.height)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDimensions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, s.Width())
			assert.Equal(t, tt.height, s.Height())
		})
	}
}

func TestMustSpacePanics(t *testing.T) {
	assert.Panics(t, func() { MustSpace(0, 0) })
}

func TestSpaceEquality(t *testing.T) {
	assert.Equal(t, MustSpace(1024, 768), MustSpace(1024, 768))
	assert.NotEqual(t, MustSpace(1024, 768), MustSpace(768, 1024))
	assert.True(t, MustSpace(1024, 768) == MustSpace(1024, 768))
}

func TestParseSpace(t *testing.T) {
	s, err := ParseSpace("1920x1080")
	require.NoError(t, err)
	assert.Equal(t, MustSpace(1920, 1080), s)

	s, err = ParseSpace(" 1366X768 ")
	require.NoError(t, err)
	assert.Equal(t, MustSpace(1366, 768), s)

	for _, bad := range []string{"", "1920", "ax1080", "1920xb", "0x10"} {
		_, err := ParseSpace(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSpaceString(t *testing.T) {
	assert.Equal(t, "1920x1080", MustSpace(1920, 1080).String())
	assert.InDelta(t, 16.0/9.0, MustSpace(1920, 1080).AspectRatio(), 1e-9)
}

func TestSpaceJSON(t *testing.T) {
	data, err := json.Marshal(MustSpace(1024, 768))
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":1024,"height":768}`, string(data))

	var s Space
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, MustSpace(1024, 768), s)

	err = json.Unmarshal([]byte(`{"width":0,"height":768}`), &s)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

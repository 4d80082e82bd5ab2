package imaging

import (
	"image/color"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

func TestNewStore(t *testing.T) {
	store := NewStore()
	if store == nil {
		t.Fatal("NewStore returned nil")
	}
	assert.Zero(t, store.Len())
}

func TestStore_Load(t *testing.T) {
	store := NewStore()
	path := writeTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	handle, shot, err := store.Load(path)
	require.NoError(t, err)
	_, err = uuid.Parse(handle)
	assert.NoError(t, err, "handle should be a UUID")
	assert.Equal(t, screenspace.MustSpace(100, 80), shot.Space())

	// Loading the same path again returns the existing entry.
	handle2, shot2, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, handle, handle2)
	assert.Same(t, shot, shot2)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Load_NonExistent(t *testing.T) {
	store := NewStore()
	_, _, err := store.Load("/nonexistent/path/to/image.png")
	assert.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestStore_PutGet(t *testing.T) {
	store := NewStore()
	shot, err := FromImage(createInMemoryImage(10, 10, color.White))
	require.NoError(t, err)

	handle := store.Put(shot)
	got, err := store.Get(handle)
	require.NoError(t, err)
	assert.Same(t, shot, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestStore_Evict(t *testing.T) {
	store := NewStore()
	path := writeTestImage(t, 10, 10, color.White)

	handle, _, err := store.Load(path)
	require.NoError(t, err)
	store.Evict(handle)

	_, err = store.Get(handle)
	assert.ErrorIs(t, err, ErrUnknownHandle)

	// The path is no longer indexed, so it loads under a new handle.
	handle2, _, err := store.Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, handle, handle2)

	store.Evict("missing")
}

func TestStore_Derive(t *testing.T) {
	store := NewStore()
	original, err := FromImage(createInMemoryImage(40, 20, color.White))
	require.NoError(t, err)
	origin := store.Put(original)

	resized, err := original.Resize(screenspace.MustSpace(20, 20), screenspace.ResizeModeLetterbox)
	require.NoError(t, err)
	derived, err := store.Derive(origin, resized)
	require.NoError(t, err)

	h, shot, err := store.Origin(derived)
	require.NoError(t, err)
	assert.Equal(t, origin, h)
	assert.Same(t, original, shot)

	// A screenshot that was not derived is its own origin.
	h, shot, err = store.Origin(origin)
	require.NoError(t, err)
	assert.Equal(t, origin, h)
	assert.Same(t, original, shot)

	// Deriving from a derived screenshot records the original.
	again, err := store.Derive(derived, resized)
	require.NoError(t, err)
	h, _, err = store.Origin(again)
	require.NoError(t, err)
	assert.Equal(t, origin, h)

	_, err = store.Derive("missing", resized)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	_, _, err = store.Origin("missing")
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestStore_EvictOriginDropsDerived(t *testing.T) {
	store := NewStore()
	original, err := FromImage(createInMemoryImage(10, 10, color.White))
	require.NoError(t, err)
	origin := store.Put(original)
	derived, err := store.Derive(origin, original)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	store.Evict(origin)

	_, err = store.Get(derived)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.Zero(t, store.Len())
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	for i := 0; i < 3; i++ {
		shot, err := FromImage(createInMemoryImage(5, 5, color.White))
		require.NoError(t, err)
		store.Put(shot)
	}
	assert.Equal(t, 3, store.Len())
	store.Clear()
	assert.Zero(t, store.Len())
}

func TestStore_ConcurrentLoad(t *testing.T) {
	store := NewStore()
	path := writeTestImage(t, 50, 50, color.White)

	var wg sync.WaitGroup
	handles := make([]string, 10)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, _, err := store.Load(path)
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		assert.Equal(t, handles[0], h)
	}
	assert.Equal(t, 1, store.Len())
}

func TestDescribe(t *testing.T) {
	store := NewStore()
	path := writeTestImage(t, 40, 30, color.RGBA{0, 255, 0, 255})
	handle, shot, err := store.Load(path)
	require.NoError(t, err)

	info, err := Describe(handle, shot)
	require.NoError(t, err)
	assert.Equal(t, handle, info.Handle)
	assert.Equal(t, screenspace.MustSpace(40, 30), info.Space)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, "8-bit", info.ColorDepth)
	assert.Equal(t, len(shot.Bytes()), info.SizeBytes)
	assert.Nil(t, info.ResizeMetadata)

	resized, err := shot.Resize(screenspace.MustSpace(20, 20), screenspace.ResizeModeLetterbox)
	require.NoError(t, err)
	info, err = Describe("r", resized)
	require.NoError(t, err)
	require.NotNil(t, info.ResizeMetadata)
	assert.Equal(t, screenspace.ResizeModeLetterbox, info.ResizeMetadata.Mode())
}

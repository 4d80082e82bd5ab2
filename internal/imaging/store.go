package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// ErrUnknownHandle is returned when a handle does not name a stored screenshot.
var ErrUnknownHandle = errors.New("unknown screenshot handle")

// Store keeps screenshots in memory under opaque handles so that a client can
// load an image once and then resize it, crop it and map coordinates through
// it across many requests.
//
// Handles are random UUID strings. Screenshots loaded from disk are also
// indexed by path, so loading the same path twice returns the existing handle
// without reading the file again.
//
// A screenshot stored with Derive remembers the original it was produced
// from. Derivation is always recorded against the original, never against
// another derived screenshot, so one ResizeMetadata links any handle to its
// origin.
//
// Store is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Screenshots remain in memory until removed via Evict() or Clear().
type Store struct {
	mu      sync.RWMutex
	shots   map[string]*Screenshot
	byPath  map[string]string
	origins map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		shots:   make(map[string]*Screenshot),
		byPath:  make(map[string]string),
		origins: make(map[string]string),
	}
}

// Put stores shot under a new handle and returns the handle.
func (s *Store) Put(shot *Screenshot) string {
	handle := uuid.NewString()
	s.mu.Lock()
	s.shots[handle] = shot
	s.mu.Unlock()
	return handle
}

// Derive stores shot as produced from the screenshot under parent and returns
// the new handle. If parent is itself derived, shot is recorded against
// parent's origin.
func (s *Store) Derive(parent string, shot *Screenshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shots[parent]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHandle, parent)
	}
	if origin, ok := s.origins[parent]; ok {
		parent = origin
	}
	handle := uuid.NewString()
	s.shots[handle] = shot
	s.origins[handle] = parent
	return handle, nil
}

// Origin returns the handle and screenshot that handle was derived from. For
// a screenshot that was not derived it returns handle itself.
func (s *Store) Origin(handle string) (string, *Screenshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.shots[handle]; !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownHandle, handle)
	}
	origin, ok := s.origins[handle]
	if !ok {
		return handle, s.shots[handle], nil
	}
	shot, ok := s.shots[origin]
	if !ok {
		return "", nil, fmt.Errorf("%w: origin %q of %q", ErrUnknownHandle, origin, handle)
	}
	return origin, shot, nil
}

// Get returns the screenshot stored under handle.
func (s *Store) Get(handle string) (*Screenshot, error) {
	s.mu.RLock()
	shot, ok := s.shots[handle]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandle, handle)
	}
	return shot, nil
}

// Load reads the image at path and stores it, returning its handle.
//
// The path is used verbatim as the index key: different spellings of the same
// file (relative vs absolute) are loaded separately.
func (s *Store) Load(path string) (string, *Screenshot, error) {
	s.mu.RLock()
	if handle, ok := s.byPath[path]; ok {
		shot := s.shots[handle]
		s.mu.RUnlock()
		return handle, shot, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read image: %w", err)
	}
	shot, err := NewScreenshot(data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have loaded the same path meanwhile.
	if handle, ok := s.byPath[path]; ok {
		return handle, s.shots[handle], nil
	}
	handle := uuid.NewString()
	s.shots[handle] = shot
	s.byPath[path] = handle
	return handle, shot, nil
}

// Evict removes the screenshot stored under handle together with every
// screenshot derived from it. Unknown handles are ignored.
func (s *Store) Evict(handle string) {
	s.mu.Lock()
	delete(s.shots, handle)
	delete(s.origins, handle)
	for path, h := range s.byPath {
		if h == handle {
			delete(s.byPath, path)
		}
	}
	for derived, origin := range s.origins {
		if origin == handle {
			delete(s.shots, derived)
			delete(s.origins, derived)
		}
	}
	s.mu.Unlock()
}

// Clear removes every screenshot.
func (s *Store) Clear() {
	s.mu.Lock()
	s.shots = make(map[string]*Screenshot)
	s.byPath = make(map[string]string)
	s.origins = make(map[string]string)
	s.mu.Unlock()
}

// Len returns the number of stored screenshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shots)
}

// ScreenshotInfo describes a stored screenshot.
type ScreenshotInfo struct {
	Handle string `json:"handle"`

	// Space is the pixel grid of the screenshot.
	Space screenspace.Space `json:"space"`

	// Format is the detected encoding: "png", "jpeg", "gif", "bmp" or "webp".
	// Detection is based on file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	SizeBytes int `json:"size_bytes"`

	// ResizeMetadata is present when the screenshot was produced by a resize.
	ResizeMetadata *screenspace.ResizeMetadata `json:"resize_metadata,omitempty"`
}

// Describe decodes the screenshot if needed and reports its metadata.
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func Describe(handle string, shot *Screenshot) (*ScreenshotInfo, error) {
	img, err := shot.Image()
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ScreenshotInfo{
		Handle:         handle,
		Space:          shot.Space(),
		Format:         shot.Format(),
		ColorDepth:     colorDepth,
		HasAlpha:       hasAlpha,
		SizeBytes:      len(shot.Bytes()),
		ResizeMetadata: shot.ResizeMetadata(),
	}, nil
}

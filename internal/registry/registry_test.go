package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResolveDestroy(t *testing.T) {
	r := New(8)

	h, err := r.Create(KindImage, "pixels")
	require.NoError(t, err)
	assert.NotEqual(t, Handle(0), h)

	payload, err := r.Resolve(h, KindImage)
	require.NoError(t, err)
	assert.Equal(t, "pixels", payload)

	payload, err = r.Destroy(h)
	require.NoError(t, err)
	assert.Equal(t, "pixels", payload)

	_, err = r.Resolve(h, KindImage)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestDoubleDestroyIsError(t *testing.T) {
	r := New(8)

	h, err := r.Create(KindSurface, nil)
	require.NoError(t, err)

	_, err = r.Destroy(h)
	require.NoError(t, err)

	_, err = r.Destroy(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	r := New(1)

	h1, err := r.Create(KindGeometry, 1)
	require.NoError(t, err)
	_, err = r.Destroy(h1)
	require.NoError(t, err)

	// The slot is reused, but with a bumped generation.
	h2, err := r.Create(KindGeometry, 2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "reused slot must not reissue the same handle")

	_, err = r.Resolve(h1, KindGeometry)
	assert.ErrorIs(t, err, ErrInvalidHandle, "stale handle must not alias the new object")

	payload, err := r.Resolve(h2, KindGeometry)
	require.NoError(t, err)
	assert.Equal(t, 2, payload)
}

func TestKindMismatch(t *testing.T) {
	r := New(8)

	h, err := r.Create(KindMaterial, nil)
	require.NoError(t, err)

	_, err = r.Resolve(h, KindFont)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestZeroHandleInvalid(t *testing.T) {
	r := New(8)
	_, err := r.Create(KindSurface, nil)
	require.NoError(t, err)

	_, err = r.Resolve(0, KindSurface)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestCapacityExhausted(t *testing.T) {
	r := New(2)

	_, err := r.Create(KindImage, nil)
	require.NoError(t, err)
	h, err := r.Create(KindImage, nil)
	require.NoError(t, err)

	_, err = r.Create(KindImage, nil)
	assert.ErrorIs(t, err, ErrExhausted)

	// Destroying frees capacity.
	_, err = r.Destroy(h)
	require.NoError(t, err)
	_, err = r.Create(KindImage, nil)
	assert.NoError(t, err)
}

func TestLive(t *testing.T) {
	r := New(4)
	assert.Equal(t, 0, r.Live())

	h1, _ := r.Create(KindSurface, nil)
	h2, _ := r.Create(KindGraphics, nil)
	assert.Equal(t, 2, r.Live())

	_, err := r.Destroy(h1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Live())

	_, err = r.Destroy(h2)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Live())
}

func TestManyGenerations(t *testing.T) {
	r := New(1)

	var old []Handle
	for i := 0; i < 16; i++ {
		h, err := r.Create(KindFont, i)
		require.NoError(t, err)
		for _, stale := range old {
			_, err := r.Resolve(stale, KindFont)
			assert.True(t, errors.Is(err, ErrInvalidHandle))
		}
		_, err = r.Destroy(h)
		require.NoError(t, err)
		old = append(old, h)
	}
}

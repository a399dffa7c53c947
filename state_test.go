package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FITScomposer/fitsfile"
	"FITScomposer/pipeline"
)

func testImages(t *testing.T) (pipeline.ViewState, [3]*fitsfile.Image) {
	t.Helper()
	var images [3]*fitsfile.Image
	for i := range images {
		images[i] = &fitsfile.Image{Path: channelNames[i] + ".fits", Grid: ramp(4, 3)}
	}
	view, err := viewFromImages(images)
	require.NoError(t, err)
	return view, images
}

func TestViewStoreConcurrentAccess(t *testing.T) {
	view, images := testImages(t)
	var s viewStore

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.set(view, images)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if next, ok := s.withGains(pipeline.Gains{Red: 2, Green: 1, Blue: 0.5}); ok {
				_, err := next.Composite()
				assert.NoError(t, err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if v, h, ok := s.current(); ok {
				assert.Equal(t, 4, v.Red.Width)
				assert.NotNil(t, h[0])
			}
		}
	}()
	wg.Wait()

	_, _, ok := s.current()
	assert.True(t, ok)
	s.clear()
	_, _, ok = s.current()
	assert.False(t, ok)
	_, ok = s.withGains(pipeline.DefaultGains())
	assert.False(t, ok)
}

func TestViewStorePending(t *testing.T) {
	view, images := testImages(t)
	var s viewStore

	got, missing := s.addPending(1, images[1])
	assert.Equal(t, 0, missing)
	assert.Nil(t, got[0])
	_, missing = s.addPending(0, images[0])
	assert.Equal(t, 2, missing)
	s.dropPending(0)
	_, missing = s.addPending(2, images[2])
	assert.Equal(t, 0, missing)

	// With a view shown, one channel replaces that channel only.
	s.set(view, images)
	other := &fitsfile.Image{Path: "other.fits", Grid: ramp(4, 3)}
	got, missing = s.addPending(2, other)
	assert.Equal(t, -1, missing)
	assert.Equal(t, [3]*fitsfile.Image{images[0], images[1], other}, got)

	_, headers, _ := s.current()
	assert.Equal(t, images, headers, "shown images change only through set")
}

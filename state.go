package main

import (
	"sync"

	"FITScomposer/fitsfile"
	"FITScomposer/pipeline"
)

// viewStore holds the loaded images and the view built from them. The
// download goroutine and the UI goroutine both go through it.
type viewStore struct {
	mu      sync.Mutex
	view    pipeline.ViewState
	have    bool
	headers [3]*fitsfile.Image // images behind view, for titles and meta-data
	pending [3]*fitsfile.Image // channels picked one at a time
}

func (s *viewStore) set(view pipeline.ViewState, images [3]*fitsfile.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.headers = images
	s.have = true
	s.pending = [3]*fitsfile.Image{}
}

func (s *viewStore) current() (pipeline.ViewState, [3]*fitsfile.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.headers, s.have
}

// withGains swaps the gains of the current view and returns the result.
func (s *viewStore) withGains(g pipeline.Gains) (pipeline.ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.have {
		return pipeline.ViewState{}, false
	}
	s.view = s.view.WithGains(g)
	return s.view, true
}

func (s *viewStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = pipeline.ViewState{}
	s.have = false
	s.headers = [3]*fitsfile.Image{}
	s.pending = [3]*fitsfile.Image{}
}

// addPending records one channel. With a view loaded it replaces that
// channel of the shown images. missing is -1 once all three are present.
func (s *viewStore) addPending(channel int, img *fitsfile.Image) (images [3]*fitsfile.Image, missing int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.have {
		s.pending = s.headers
	}
	s.pending[channel] = img
	for i, p := range s.pending {
		if p == nil {
			return s.pending, i
		}
	}
	return s.pending, -1
}

func (s *viewStore) dropPending(channel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[channel] = nil
}

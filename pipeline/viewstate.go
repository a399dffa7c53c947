package pipeline

// ViewState is everything needed to recompute the composite on screen.
// It is a value: changing the gains produces a new ViewState and the
// channels it holds are never written to.
type ViewState struct {
	Red   Channel
	Green Channel
	Blue  Channel
	Gains Gains
}

// NewViewState normalizes three raw grids and pairs them with default gains.
func NewViewState(red, green, blue Grid) (ViewState, error) {
	var v ViewState
	var err error
	if v.Red, err = Normalize(red); err != nil {
		return ViewState{}, err
	}
	if v.Green, err = Normalize(green); err != nil {
		return ViewState{}, err
	}
	if v.Blue, err = Normalize(blue); err != nil {
		return ViewState{}, err
	}
	if v.Red.Shape() != v.Green.Shape() || v.Red.Shape() != v.Blue.Shape() {
		return ViewState{}, &ShapeError{Red: v.Red.Shape(), Green: v.Green.Shape(), Blue: v.Blue.Shape()}
	}
	v.Gains = DefaultGains()
	return v, nil
}

// WithGains returns a copy of v using gains g. Channels are not renormalized.
func (v ViewState) WithGains(g Gains) ViewState {
	v.Gains = g
	return v
}

// Channels returns the normalized channels in red, green, blue order.
func (v ViewState) Channels() [3]Channel { return [3]Channel{v.Red, v.Green, v.Blue} }

// Composite recomputes the RGB image for the current gains.
func (v ViewState) Composite() (Composite, error) {
	return Compose(v.Red, v.Green, v.Blue, v.Gains)
}

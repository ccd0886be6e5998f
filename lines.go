package lumen

// AddLine appends an emissive stroke segment. Coordinates are in canvas
// pixels; thickness is the full stroke width.
func (e *Engine) AddLine(x1, y1, x2, y2, thickness float64, c Color) {
	e.lines = append(e.lines, Line{
		X1: x1, Y1: y1,
		X2: x2, Y2: y2,
		Thickness: thickness,
		Color:     c,
	})
}

// ClearLines removes all stroke segments.
func (e *Engine) ClearLines() {
	e.lines = e.lines[:0]
}

// EraseAt removes every segment passing within radius of (x, y), measured as
// point-to-segment distance. Surviving segments keep their exact vertex data.
// Returns the number of segments removed.
func (e *Engine) EraseAt(x, y, radius float64) int {
	r2 := radius * radius
	kept := e.lines[:0]
	for _, l := range e.lines {
		if pointSegmentDistSq(x, y, l.X1, l.Y1, l.X2, l.Y2) > r2 {
			kept = append(kept, l)
		}
	}
	removed := len(e.lines) - len(kept)
	e.lines = kept
	return removed
}

// Lines returns the current segment list. The returned slice MUST NOT be
// mutated; use AddLine, ClearLines, and EraseAt instead.
func (e *Engine) Lines() []Line {
	return e.lines
}

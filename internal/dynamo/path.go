package dynamo

// Path is a bounded trail of past positions. Once it holds Max samples the
// oldest sample is dropped for every new one.
type Path struct {
	Max    int
	points []Vec2
}

func NewPath(limit int) Path {
	if limit <= 0 {
		limit = DefaultMaxPath
	}
	return Path{Max: limit, points: make([]Vec2, 0, min(limit, 64))}
}

// Record appends p and trims the front so Len() <= Max.
func (t *Path) Record(p Vec2) {
	if t.Max <= 0 {
		t.Max = DefaultMaxPath
	}
	t.points = append(t.points, p)
	if over := len(t.points) - t.Max; over > 0 {
		t.points = t.points[over:]
	}
}

// SetMax changes the bound, keeping the newest samples.
func (t *Path) SetMax(limit int) {
	if limit <= 0 {
		limit = DefaultMaxPath
	}
	t.Max = limit
	if over := len(t.points) - limit; over > 0 {
		t.points = t.points[over:]
	}
}

func (t *Path) Len() int { return len(t.points) }

// Points returns the samples oldest first. The slice must not be modified.
func (t *Path) Points() []Vec2 { return t.points }

// Last returns the newest sample.
func (t *Path) Last() (Vec2, bool) {
	if len(t.points) == 0 {
		return Vec2{}, false
	}
	return t.points[len(t.points)-1], true
}

func (t *Path) First() (Vec2, bool) {
	if len(t.points) == 0 {
		return Vec2{}, false
	}
	return t.points[0], true
}

func (t *Path) Clear() { t.points = t.points[:0] }

func (t Path) Clone() Path {
	c := Path{Max: t.Max, points: make([]Vec2, len(t.points), max(len(t.points), 1))}
	copy(c.points, t.points)
	return c
}

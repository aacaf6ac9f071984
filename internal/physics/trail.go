package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

// Trail is the ordered history of sampled positions. With a zero limit it
// grows without bound; otherwise it is a ring keeping the newest samples.
type Trail struct {
	points []dynamo.Vec2
	start  int
	limit  int
}

func NewTrail(limit int) *Trail {
	if limit < 0 {
		limit = 0
	}
	return &Trail{limit: limit}
}

func (t *Trail) Push(p dynamo.Vec2) {
	if t.limit == 0 || len(t.points) < t.limit {
		t.points = append(t.points, p)
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % t.limit
}

// Points returns the samples oldest first.
func (t *Trail) Points() []dynamo.Vec2 {
	if t == nil {
		return []dynamo.Vec2{}
	}
	out := make([]dynamo.Vec2, 0, len(t.points))
	out = append(out, t.points[t.start:]...)
	out = append(out, t.points[:t.start]...)
	return out
}

func (t *Trail) Len() int {
	if t == nil {
		return 0
	}
	return len(t.points)
}

func (t *Trail) Limit() int {
	if t == nil {
		return 0
	}
	return t.limit
}

func (t *Trail) Clear() {
	if t == nil {
		return
	}
	t.points = nil
	t.start = 0
}

func (t *Trail) Clone() *Trail {
	if t == nil {
		return nil
	}
	c := &Trail{start: t.start, limit: t.limit}
	if t.points != nil {
		c.points = make([]dynamo.Vec2, len(t.points))
		copy(c.points, t.points)
	}
	return c
}

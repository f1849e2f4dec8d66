package location

// DefaultTrailCapacity is the number of samples retained per container.
const DefaultTrailCapacity = 100

// Trail is a fixed-capacity FIFO of samples; the oldest sample is evicted
// once the capacity is reached. Trail is not safe for concurrent use.
type Trail struct {
	buf   []Sample
	start int
	size  int
}

// NewTrail returns an empty trail. A non-positive capacity selects DefaultTrailCapacity.
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultTrailCapacity
	}
	return &Trail{buf: make([]Sample, capacity)}
}

// Append adds s, evicting the oldest sample when full.
func (t *Trail) Append(s Sample) {
	end := (t.start + t.size) % len(t.buf)
	t.buf[end] = s
	if t.size < len(t.buf) {
		t.size++
		return
	}
	t.start = (t.start + 1) % len(t.buf)
}

// Samples returns the retained samples, oldest first.
func (t *Trail) Samples() []Sample {
	out := make([]Sample, t.size)
	for i := range t.size {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

// Latest returns the most recently appended sample.
func (t *Trail) Latest() (Sample, bool) {
	if t.size == 0 {
		return Sample{}, false
	}
	return t.buf[(t.start+t.size-1)%len(t.buf)], true
}

func (t *Trail) Len() int {
	return t.size
}

func (t *Trail) Cap() int {
	return len(t.buf)
}

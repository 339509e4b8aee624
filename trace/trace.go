// Package trace records what the planner did for each frame.
//
// A [Frame] lists every attempt (policy, forced software span, number of
// layer groups, outcome) and the final bindings. Frames are plain data and
// encode to canonical CBOR, so two identical planning runs produce
// byte-identical traces.
package trace

// Attempt is one placement attempt.
type Attempt struct {
	Policy string `cbor:"1,keyasint"`
	// First and Last bound the layers forced into the framebuffer target.
	// Both are -1 for an attempt without software composition.
	First  int  `cbor:"2,keyasint"`
	Last   int  `cbor:"3,keyasint"`
	Groups int  `cbor:"4,keyasint"`
	OK     bool `cbor:"5,keyasint"`
}

// Binding is one bound layer group.
type Binding struct {
	Z      int      `cbor:"1,keyasint"`
	Group  string   `cbor:"2,keyasint"`
	Planes []string `cbor:"3,keyasint"`
	// Layers holds layer IDs; 0 is the framebuffer target unless the caller
	// gave its target an ID.
	Layers []uint32 `cbor:"4,keyasint"`
}

// Frame is the trace of one planning call.
type Frame struct {
	Seq      uint64    `cbor:"1,keyasint"`
	Display  int       `cbor:"2,keyasint"`
	Layers   int       `cbor:"3,keyasint"`
	Attempts []Attempt `cbor:"4,keyasint"`
	Policy   string    `cbor:"5,keyasint,omitempty"`
	Bindings []Binding `cbor:"6,keyasint,omitempty"`

	TargetFirst      int  `cbor:"7,keyasint"`
	TargetLast       int  `cbor:"8,keyasint"`
	TargetCompressed bool `cbor:"9,keyasint,omitempty"`

	Error string `cbor:"10,keyasint,omitempty"`
}

// Sink receives frame traces. The planner hands over ownership of f.
type Sink interface {
	Record(f *Frame)
}

// Recorder keeps frames in memory. It is not safe for concurrent use.
type Recorder struct {
	Frames []*Frame
}

// Record appends f.
func (r *Recorder) Record(f *Frame) { r.Frames = append(r.Frames, f) }

// Reset drops every recorded frame.
func (r *Recorder) Reset() { r.Frames = r.Frames[:0] }

package trace

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// encMode is configured for deterministic encoding.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// Encode encodes a frame to CBOR bytes.
func Encode(f *Frame) ([]byte, error) {
	return encMode.Marshal(f)
}

// Decode decodes CBOR bytes into a frame.
func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := decMode.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Writer streams frames as a sequence of CBOR items. It is safe for
// concurrent use, so planners of several displays may share one Writer.
type Writer struct {
	mu  sync.Mutex
	enc *cbor.Encoder
	err error
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: encMode.NewEncoder(w)}
}

// Record encodes f. The first encoding error is kept and returned by Err;
// later frames are dropped.
func (w *Writer) Record(f *Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return
	}
	w.err = w.enc.Encode(f)
}

// Err returns the first encoding error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// ReadAll decodes every frame from r until end of input.
func ReadAll(r io.Reader) ([]*Frame, error) {
	dec := decMode.NewDecoder(r)
	var frames []*Frame
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, fmt.Errorf("trace: frame %d: %w", len(frames), err)
		}
		frames = append(frames, &f)
	}
}

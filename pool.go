package hwc

import (
	"sync"

	"github.com/gogpu/hwc/plane"
)

// Pool shares the plane groups of one table between the planners of several
// displays. Plan calls of planners created from the same Pool are serialised,
// and a group bound by one display stays out of reach of the others until
// that display releases it or its next plan no longer uses it.
type Pool struct {
	table *plane.Table

	mu sync.Mutex
	// owner holds the owning display of each group, or -1.
	owner []int
}

// NewPool returns a Pool over the groups of table.
func NewPool(table *plane.Table) (*Pool, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	owner := make([]int, len(table.Groups))
	for i := range owner {
		owner[i] = -1
	}
	return &Pool{table: table, owner: owner}, nil
}

// Planner returns a planner for display that plans against the pool.
// A [WithDisplay] option among opts is overridden by display.
func (p *Pool) Planner(display int, opts ...Option) (*Planner, error) {
	opts = append(opts[:len(opts):len(opts)], WithDisplay(display))
	pl, err := New(p.table, opts...)
	if err != nil {
		return nil, err
	}
	pl.pool = p
	return pl, nil
}

// Owner returns the display owning the named group.
func (p *Pool) Owner(group string) (display int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, g := range p.table.Groups {
		if g.Name == group && p.owner[i] >= 0 {
			return p.owner[i], true
		}
	}
	return -1, false
}

// Release gives up every group owned by display, for example when the
// display is switched off.
func (p *Pool) Release(display int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, d := range p.owner {
		if d == display {
			p.owner[i] = -1
		}
	}
}

// ownedByOther reports whether group gi belongs to a display other than
// display. Callers hold p.mu.
func (p *Pool) ownedByOther(gi, display int) bool {
	d := p.owner[gi]
	return d >= 0 && d != display
}

// claim records the groups bound by display's latest plan, dropping the
// ones it no longer uses. Callers hold p.mu.
func (p *Pool) claim(display int, bindings []plane.Binding) {
	for i, d := range p.owner {
		if d == display {
			p.owner[i] = -1
		}
	}
	for _, b := range bindings {
		p.owner[b.Group.Index()] = display
	}
}

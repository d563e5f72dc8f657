package probe

import "fmt"

// Mock is a scripted detector for tests and for running the tracker on
// systems with no platform probe. It replays its readings in order and
// keeps returning the last one when the script runs out.
type Mock struct {
	Readings []Reading
	Err      error
	pos      int
	closed   bool
}

// NewMock creates a mock detector that always reports the given reading.
func NewMock(r Reading) *Mock {
	return &Mock{Readings: []Reading{r}}
}

func (m *Mock) Sample() (*Reading, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Readings) == 0 {
		return nil, fmt.Errorf("mock detector has no readings")
	}
	r := m.Readings[m.pos]
	if m.pos < len(m.Readings)-1 {
		m.pos++
	}
	return &r, nil
}

func (m *Mock) IsAvailable() bool { return true }

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

package input

import (
	"io"
	"io/ioutil"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/tapui/internal/types"
)

// one event per Read, as evdev does
type eventReader struct{ events []inputevent.InputEvent }

func (r *eventReader) Read(p []byte) (int, error) {
	if len(r.events) == 0 {
		return 0, io.EOF
	}
	e := r.events[0]
	r.events = r.events[1:]
	b := (*[inputevent.EventSizeof]byte)(unsafe.Pointer(&e))[:]
	return copy(p, b), nil
}

func ev(typ, code uint16, value int32) inputevent.InputEvent {
	return inputevent.InputEvent{Type: typ, Code: code, Value: value}
}

func readAll(t testing.TB, s *DevInputEventSource) []types.InputEvent {
	result := []types.InputEvent{}
	for {
		e, err := s.Read()
		if err == io.EOF {
			return result
		}
		require.NoError(t, err)
		result = append(result, e)
	}
}

func TestDevInputKeys(t *testing.T) {
	t.Parallel()

	r := &eventReader{events: []inputevent.InputEvent{
		ev(evKey, uint16(types.KeyZ), 1), ev(evSyn, 0, 0),
		ev(evKey, uint16(types.KeyZ), 2), ev(evSyn, 0, 0),
		ev(evKey, uint16(types.KeyZ), 0), ev(evSyn, 0, 0),
	}}
	s := NewDevInputEventReader(ioutil.NopCloser(r), nil)
	events := readAll(t, s)
	require.Len(t, events, 3)
	assert.Equal(t, types.InputKindKey, events[0].Kind)
	assert.False(t, events[0].Up)
	assert.True(t, events[1].Repeat)
	assert.True(t, events[2].Up)
	assert.Equal(t, DevInputEventTag, events[2].Source)
}

func TestDevInputTouch(t *testing.T) {
	t.Parallel()

	cal := &Calibration{MinX: 0, MaxX: 4095, MinY: 0, MaxY: 4095, Width: 320, Height: 240}
	r := &eventReader{events: []inputevent.InputEvent{
		ev(evKey, btnTouch, 1), ev(evAbs, absX, 2048), ev(evAbs, absY, 4095), ev(evSyn, 0, 0),
		ev(evAbs, absX, 100), ev(evSyn, 0, 0), // move while touching, no event
		ev(evKey, btnTouch, 0), ev(evSyn, 0, 0),
	}}
	events := readAll(t, NewDevInputEventReader(ioutil.NopCloser(r), cal))
	require.Len(t, events, 2)
	assert.Equal(t, types.InputEvent{Source: DevInputEventTag, Kind: types.InputKindPointer, X: 159, Y: 239}, events[0])
	assert.True(t, events[1].Up)
}

func TestCalibration(t *testing.T) {
	t.Parallel()

	c := Calibration{MinX: 200, MaxX: 3900, MinY: 300, MaxY: 3800, SwapXY: true, Width: 320, Height: 240}
	x, y := c.Map(300, 200)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	x, y = c.Map(5000, 5000)
	assert.Equal(t, 319, x)
	assert.Equal(t, 239, y)
	x, y = c.Map(100, 100)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	raw := Calibration{}
	x, y = raw.Map(17, 23)
	assert.Equal(t, []int{17, 23}, []int{x, y})
}

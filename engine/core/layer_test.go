package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recLayer struct {
	name   string
	log    *[]string
	handle bool
}

func (l *recLayer) OnAttach(*Engine) error    { *l.log = append(*l.log, "attach "+l.name); return nil }
func (l *recLayer) OnDetach(*Engine)          { *l.log = append(*l.log, "detach "+l.name) }
func (l *recLayer) OnUpdate(*Engine, float64) {}
func (l *recLayer) OnRender(*Engine, float64) {}
func (l *recLayer) OnEvent(_ *Engine, _ Event) bool {
	*l.log = append(*l.log, "event "+l.name)
	return l.handle
}

func TestLayerStackOrder(t *testing.T) {
	var log []string
	var ls LayerStack
	e := &Engine{}
	require.NoError(t, ls.Push(e, &recLayer{name: "a", log: &log}))
	require.NoError(t, ls.Push(e, &recLayer{name: "b", log: &log, handle: true}))

	ls.ForEachReverse(func(l Layer) bool { return l.OnEvent(e, EventCloseRequested{}) })

	l, ok := ls.Pop(e)
	require.True(t, ok)
	assert.Equal(t, "b", l.(*recLayer).name)
	assert.Equal(t, []string{"attach a", "attach b", "event b", "detach b"}, log)
	assert.Equal(t, 1, ls.Len())
}

func TestInput(t *testing.T) {
	in := NewInput()
	in.Handle(EventKey{Key: KeyW, Down: true})
	in.Handle(EventMouseMove{X: 3, Y: 4})
	in.Handle(EventMouseButton{Button: 1, Down: true})
	in.Handle(EventMouseButton{Button: 99, Down: true})

	assert.True(t, in.IsKeyDown(KeyW))
	assert.False(t, in.IsKeyDown(KeyA))
	assert.True(t, in.IsMouseDown(1))
	assert.False(t, in.IsMouseDown(99))
	x, y := in.Mouse()
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	assert.Equal(t, Rect{5, 5, 10, 10}, a.Intersect(Rect{5, 5, 20, 20}))
	empty := a.Intersect(Rect{20, 20, 30, 30})
	assert.Zero(t, empty.W())
	assert.Zero(t, empty.H())
}

package core

// Layer is a unit of per-frame app logic; layers render bottom to top and
// receive events top to bottom.
type Layer interface {
	OnAttach(e *Engine) error
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	OnEvent(e *Engine, ev Event) bool // return true if handled; propagation stops
}

type LayerStack struct{ list []Layer }

// Push attaches l and places it on top of the stack.
func (ls *LayerStack) Push(e *Engine, l Layer) error {
	if err := l.OnAttach(e); err != nil {
		return err
	}
	ls.list = append(ls.list, l)
	return nil
}

// Pop detaches and removes the top layer.
func (ls *LayerStack) Pop(e *Engine) (Layer, bool) {
	if len(ls.list) == 0 {
		return nil, false
	}
	i := len(ls.list) - 1
	l := ls.list[i]
	ls.list[i] = nil
	ls.list = ls.list[:i]
	l.OnDetach(e)
	return l, true
}

func (ls *LayerStack) Len() int { return len(ls.list) }

func (ls *LayerStack) ForEach(f func(Layer)) {
	for _, l := range ls.list {
		f(l)
	}
}

func (ls *LayerStack) ForEachReverse(f func(Layer) bool) {
	for i := len(ls.list) - 1; i >= 0; i-- {
		if stop := f(ls.list[i]); stop {
			break
		}
	}
}

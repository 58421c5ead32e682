package ambience

// listener pairs a registration id with its callback.
type listener[T any] struct {
	id uint32
	fn func(T)
}

// listenerList is an ordered callback registry. All ambience state is mutated
// from the frame loop, so no locking is done here.
type listenerList[T any] struct {
	items  []listener[T]
	nextID uint32
	// scratch is reused by emit so callbacks may unsubscribe mid-dispatch.
	scratch []listener[T]
}

func (l *listenerList[T]) add(fn func(T)) uint32 {
	l.nextID++
	l.items = append(l.items, listener[T]{id: l.nextID, fn: fn})
	return l.nextID
}

// remove deletes the entry with the given id. The entry is removed from the
// slice to avoid nil iteration waste. Reports whether anything was removed.
func (l *listenerList[T]) remove(id uint32) bool {
	for i := range l.items {
		if l.items[i].id == id {
			copy(l.items[i:], l.items[i+1:])
			l.items[len(l.items)-1] = listener[T]{}
			l.items = l.items[:len(l.items)-1]
			return true
		}
	}
	return false
}

func (l *listenerList[T]) emit(v T) {
	if len(l.items) == 0 {
		return
	}
	l.scratch = append(l.scratch[:0], l.items...)
	for _, it := range l.scratch {
		it.fn(v)
	}
	clear(l.scratch)
}

func (l *listenerList[T]) len() int {
	return len(l.items)
}

// CallbackHandle allows removing a registered callback. The zero value is a
// valid handle whose Remove does nothing.
type CallbackHandle struct {
	remove func() bool
}

// Remove unregisters the callback so it no longer fires. Calling Remove more
// than once is safe.
func (h CallbackHandle) Remove() {
	if h.remove == nil {
		return
	}
	h.remove()
}

func handleFor[T any](l *listenerList[T], id uint32, after func()) CallbackHandle {
	return CallbackHandle{remove: func() bool {
		if !l.remove(id) {
			return false
		}
		if after != nil {
			after()
		}
		return true
	}}
}

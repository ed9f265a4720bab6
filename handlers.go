package drift

// handlerEntry is one registered callback.
type handlerEntry[F any] struct {
	id uint32
	fn F
}

// handlerList is an ordered set of callbacks of one kind.
type handlerList[F any] struct {
	entries []handlerEntry[F]
	nextID  uint32
}

// add appends fn and returns a handle that removes it again.
func (l *handlerList[F]) add(fn F) CallbackHandle {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, handlerEntry[F]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: l}
}

// snapshot returns a copy of the entries for dispatch, so callbacks may
// remove themselves or others without skipping a neighbour.
func (l *handlerList[F]) snapshot() []handlerEntry[F] {
	if len(l.entries) == 0 {
		return nil
	}
	return append([]handlerEntry[F](nil), l.entries...)
}

// remove deletes the entry with the given id, preserving order.
func (l *handlerList[F]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = handlerEntry[F]{}
			l.entries = l.entries[:len(l.entries)-1]
			return
		}
	}
}

type handlerRemover interface {
	remove(id uint32)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg handlerRemover
}

// Remove unregisters this callback so it no longer fires. Calling Remove on
// a zero handle, or twice, is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.id)
}

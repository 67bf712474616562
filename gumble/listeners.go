package gumble

import "sync"

// listenerEntry is the Detacher returned by Listeners.Attach.
type listenerEntry struct {
	owner *Listeners
	l     EventListener
}

func (e *listenerEntry) Detach() {
	e.owner.remove(e)
}

// Listeners is a thread-safe registry of EventListener observers. The zero
// value is ready to use.
type Listeners struct {
	mu      sync.Mutex
	entries []*listenerEntry
}

// Attach registers l and returns a Detacher that removes it.
func (ls *Listeners) Attach(l EventListener) Detacher {
	e := &listenerEntry{owner: ls, l: l}
	ls.mu.Lock()
	ls.entries = append(ls.entries, e)
	ls.mu.Unlock()
	return e
}

func (ls *Listeners) remove(e *listenerEntry) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i, x := range ls.entries {
		if x == e {
			ls.entries = append(ls.entries[:i], ls.entries[i+1:]...)
			return
		}
	}
}

func (ls *Listeners) each(f func(EventListener)) {
	ls.mu.Lock()
	snapshot := make([]*listenerEntry, len(ls.entries))
	copy(snapshot, ls.entries)
	ls.mu.Unlock()
	for _, e := range snapshot {
		f(e.l)
	}
}

// audioListenerEntry is the Detacher returned by AudioListeners.Attach.
type audioListenerEntry struct {
	owner *AudioListeners
	l     AudioListener
}

func (e *audioListenerEntry) Detach() {
	e.owner.remove(e)
}

// AudioListeners is a thread-safe registry of AudioListener observers.
type AudioListeners struct {
	mu      sync.Mutex
	entries []*audioListenerEntry
}

func (ls *AudioListeners) Attach(l AudioListener) Detacher {
	e := &audioListenerEntry{owner: ls, l: l}
	ls.mu.Lock()
	ls.entries = append(ls.entries, e)
	ls.mu.Unlock()
	return e
}

func (ls *AudioListeners) remove(e *audioListenerEntry) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i, x := range ls.entries {
		if x == e {
			ls.entries = append(ls.entries[:i], ls.entries[i+1:]...)
			return
		}
	}
}

func (ls *AudioListeners) each(f func(AudioListener)) {
	ls.mu.Lock()
	snapshot := make([]*audioListenerEntry, len(ls.entries))
	copy(snapshot, ls.entries)
	ls.mu.Unlock()
	for _, e := range snapshot {
		f(e.l)
	}
}

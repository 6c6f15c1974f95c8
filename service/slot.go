package service

// Slot is the admission gate in front of the swap engine. The engine claims
// process-wide resources and is not reentrant, so production wiring uses
// capacity 1; the capacity parameter exists so widening to N slots stays a
// one-line change.
type Slot struct {
	sem chan struct{}
}

func NewSlot(capacity int) *Slot {
	if capacity < 1 {
		capacity = 1
	}
	return &Slot{sem: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is free. There is no timeout and no
// cancellation: once a request is committed to processing it waits its turn.
func (s *Slot) Acquire() {
	s.sem <- struct{}{}
}

func (s *Slot) Release() {
	<-s.sem
}

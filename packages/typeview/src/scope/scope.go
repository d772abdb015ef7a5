// Package scope models the chain of template-introduced variable bindings
// that is live at a point of a view walk.
package scope

// Local is one binding introduced by a scope frame, with its TypeScript type
type Local struct {
	Name string
	Type string
}

// Frame represents one nesting level of template-introduced bindings.
// Frames are immutable once pushed; Depth strictly increases down the stack.
type Frame struct {
	Depth       int
	ClosingText func() string
	Locals      []Local
}

// NewFrame creates a new Frame
func NewFrame(depth int, closingText func() string, locals []Local) *Frame {
	return &Frame{Depth: depth, ClosingText: closingText, Locals: locals}
}

// Lookup returns the local with the given name, if the frame declares one
func (f *Frame) Lookup(name string) (Local, bool) {
	for _, local := range f.Locals {
		if local.Name == name {
			return local, true
		}
	}
	return Local{}, false
}

// Stack is an ordered sequence of frames, innermost last
type Stack []*Frame

// Push appends a frame. The frame's depth must exceed the current innermost
// depth; a violation is a walker defect, not a runtime condition.
func (s *Stack) Push(frame *Frame) {
	if len(*s) > 0 && frame.Depth <= (*s)[len(*s)-1].Depth {
		panic("scope: frame depth must strictly increase")
	}
	*s = append(*s, frame)
}

// Pop discards the innermost frame
func (s *Stack) Pop() *Frame {
	frame := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return frame
}

// Depth returns the number of open frames
func (s Stack) Depth() int {
	return len(s)
}

// Resolve searches the frames innermost-out for a local with the given name.
// The nearest frame wins on name collision, so shadowing resolves correctly.
func (s Stack) Resolve(name string) (Local, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if local, ok := s[i].Lookup(name); ok {
			return local, true
		}
	}
	return Local{}, false
}

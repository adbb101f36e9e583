package vm

import (
	"ipprun/types"
)

// Memory holds all mutable interpreter state for one run: the global frame,
// the optional temporary frame, the frame stack (whose top is the local
// frame), the data stack, the call stack, the label table and the program
// counter. Exactly one Memory exists per run; it is threaded explicitly
// through the VM, never held in a package global.
type Memory struct {
	global *Frame
	temp   *Frame   // nil when absent
	frames []*Frame // frame stack, top is the active LF
	data   []types.Value
	calls  []int
	labels map[string]int
	pc     int
}

// NewMemory creates a Memory with an empty global frame, no temporary
// frame, empty stacks and PC 0.
func NewMemory() *Memory {
	return &Memory{
		global: NewFrame(),
		labels: make(map[string]int),
	}
}

// Frame returns the active frame for a tag. LF and TF may be absent.
func (m *Memory) Frame(tag FrameTag) (*Frame, error) {
	switch tag {
	case FrameGlobal:
		return m.global, nil
	case FrameLocal:
		if len(m.frames) == 0 {
			return nil, types.NewError(types.E_FRAME_ABSENT, "local frame does not exist")
		}
		return m.frames[len(m.frames)-1], nil
	case FrameTemp:
		if m.temp == nil {
			return nil, types.NewError(types.E_FRAME_ABSENT, "temporary frame does not exist")
		}
		return m.temp, nil
	default:
		return nil, types.NewError(types.E_INTERNAL, "unknown frame tag %d", tag)
	}
}

// Define adds an uninitialized slot to a frame
func (m *Memory) Define(tag FrameTag, name string) error {
	frame, err := m.Frame(tag)
	if err != nil {
		return err
	}
	if !frame.Define(name) {
		return types.NewError(types.E_SEMANTIC, "variable %s@%s already defined", tag, name)
	}
	return nil
}

// Read returns the current value of a variable slot. The value may be the
// uninitialized marker; callers that require a written value reject it.
func (m *Memory) Read(tag FrameTag, name string) (types.Value, error) {
	frame, err := m.Frame(tag)
	if err != nil {
		return nil, err
	}
	v, ok := frame.Read(name)
	if !ok {
		return nil, types.NewError(types.E_UNDEF_VAR, "variable %s@%s is not defined", tag, name)
	}
	return v, nil
}

// Write replaces the value of an existing variable slot
func (m *Memory) Write(tag FrameTag, name string, v types.Value) error {
	frame, err := m.Frame(tag)
	if err != nil {
		return err
	}
	if !frame.Write(name, v) {
		return types.NewError(types.E_UNDEF_VAR, "variable %s@%s is not defined", tag, name)
	}
	return nil
}

// CreateFrame replaces TF with a fresh empty frame. Any prior TF is
// discarded.
func (m *Memory) CreateFrame() {
	m.temp = NewFrame()
}

// PushFrame moves TF onto the frame stack, making it the new LF.
// TF becomes absent.
func (m *Memory) PushFrame() error {
	if m.temp == nil {
		return types.NewError(types.E_FRAME_ABSENT, "PUSHFRAME with no temporary frame")
	}
	m.frames = append(m.frames, m.temp)
	m.temp = nil
	return nil
}

// PopFrame moves the top of the frame stack back into TF, discarding any
// current TF. LF reverts to the frame below, or becomes absent.
func (m *Memory) PopFrame() error {
	if len(m.frames) == 0 {
		return types.NewError(types.E_FRAME_ABSENT, "POPFRAME with empty frame stack")
	}
	m.temp = m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	return nil
}

// PushData pushes a value onto the data stack
func (m *Memory) PushData(v types.Value) {
	m.data = append(m.data, v)
}

// PopData pops the top of the data stack
func (m *Memory) PopData() (types.Value, error) {
	if len(m.data) == 0 {
		return nil, types.NewError(types.E_MISSING_VALUE, "data stack is empty")
	}
	v := m.data[len(m.data)-1]
	m.data = m.data[:len(m.data)-1]
	return v, nil
}

// PushCall pushes a return address onto the call stack
func (m *Memory) PushCall(pc int) {
	m.calls = append(m.calls, pc)
}

// PopCall pops a return address from the call stack
func (m *Memory) PopCall() (int, error) {
	if len(m.calls) == 0 {
		return 0, types.NewError(types.E_MISSING_VALUE, "call stack is empty")
	}
	pc := m.calls[len(m.calls)-1]
	m.calls = m.calls[:len(m.calls)-1]
	return pc, nil
}

// DefineLabel binds a label name to an instruction index
func (m *Memory) DefineLabel(name string, index int) error {
	if _, ok := m.labels[name]; ok {
		return types.NewError(types.E_SEMANTIC, "label %s defined twice", name)
	}
	m.labels[name] = index
	return nil
}

// Label resolves a label name to its instruction index
func (m *Memory) Label(name string) (int, error) {
	index, ok := m.labels[name]
	if !ok {
		return 0, types.NewError(types.E_SEMANTIC, "label %s is not defined", name)
	}
	return index, nil
}

// Labels returns the label table
func (m *Memory) Labels() map[string]int {
	return m.labels
}

// PC returns the program counter
func (m *Memory) PC() int {
	return m.pc
}

// SetPC sets the program counter
func (m *Memory) SetPC(pc int) {
	m.pc = pc
}

// DataDepth returns the data stack depth
func (m *Memory) DataDepth() int {
	return len(m.data)
}

// CallDepth returns the call stack depth
func (m *Memory) CallDepth() int {
	return len(m.calls)
}

// FrameDepth returns the frame stack depth
func (m *Memory) FrameDepth() int {
	return len(m.frames)
}

// HasTemp reports whether the temporary frame exists
func (m *Memory) HasTemp() bool {
	return m.temp != nil
}

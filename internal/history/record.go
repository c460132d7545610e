package history

// Listener is notified after the record changed.
type Listener interface {
	RecordChanged()
}

// ListenerFuncs adapts a function to Listener. Use it by pointer so it can be removed again.
type ListenerFuncs struct {
	OnChanged func()
}

// RecordChanged implements Listener.
func (f *ListenerFuncs) RecordChanged() {
	if f.OnChanged != nil {
		f.OnChanged()
	}
}

// Record is the ordered list of commands plus a cursor pointing at the last
// applied command (-1 when nothing is applied).
// A Record is used from a single goroutine and is not safe for concurrent use.
type Record struct {
	commands  []Command
	listeners []Listener
	position  int
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{position: -1}
}

// AddListener registers a listener.
func (r *Record) AddListener(l Listener) {
	r.listeners = append(r.listeners, l)
}

// RemoveListener unregisters a listener.
func (r *Record) RemoveListener(l Listener) {
	for i, existing := range r.listeners {
		if existing == l {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

func (r *Record) fireChanged() {
	for _, l := range r.listeners {
		if l != nil {
			l.RecordChanged()
		}
	}
}

// AddCommand records cmd, executing it first when it is Executable.
// A command of the same kind over the same reports as the one at the cursor
// is summed into it instead of being appended. Otherwise any undone commands
// are discarded and cmd becomes the new last entry.
func (r *Record) AddCommand(cmd Command) {
	if exec, ok := cmd.(Executable); ok {
		exec.Execute()
	}

	if r.position >= 0 {
		current := r.commands[r.position]
		if current.Kind() == cmd.Kind() && sameReports(current, cmd) {
			current.Sum(cmd)
			r.fireChanged()
			return
		}
	}

	r.commands = append(r.commands[:r.position+1], cmd)
	r.position++
	r.fireChanged()
}

// Undo reverts the command at the cursor and moves the cursor back.
func (r *Record) Undo() {
	if r.position < 0 {
		return
	}
	r.commands[r.position].Undo()
	r.position--
	r.fireChanged()
}

// Redo moves the cursor forward and re-applies that command.
func (r *Record) Redo() {
	if r.position+1 >= len(r.commands) {
		return
	}
	r.position++
	r.commands[r.position].Redo()
	r.fireChanged()
}

// CanUndo reports whether Undo would do anything.
func (r *Record) CanUndo() bool {
	return r.position >= 0
}

// CanRedo reports whether Redo would do anything.
func (r *Record) CanRedo() bool {
	return r.position+1 < len(r.commands)
}

// Reset clears the record.
func (r *Record) Reset() {
	r.commands = nil
	r.position = -1
}

// Commands returns the recorded commands, including undone ones.
func (r *Record) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

// Position returns the index of the last applied command, or -1.
func (r *Record) Position() int {
	return r.position
}

// Last returns the command at the cursor, or nil.
func (r *Record) Last() Command {
	if r.position < 0 {
		return nil
	}
	return r.commands[r.position]
}

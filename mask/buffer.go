package mask

import (
	"image"
)

// CommandBuffer is an ordered, reusable list of stencil commands
// Sources append to it during rebuild; devices replay it on submission
type CommandBuffer struct {
	name     string
	commands []Command
}

// NewCommandBuffer creates an empty named buffer
func NewCommandBuffer(name string) *CommandBuffer {
	return &CommandBuffer{
		name:     name,
		commands: make([]Command, 0, 32),
	}
}

// Name returns the debug name of the buffer
func (b *CommandBuffer) Name() string {
	return b.name
}

// Len returns the number of recorded commands
func (b *CommandBuffer) Len() int {
	return len(b.commands)
}

// SizeInBytes returns the encoded size of the recorded commands
func (b *CommandBuffer) SizeInBytes() int {
	return len(b.commands) * commandSize
}

// IsEmpty reports whether there is nothing to submit
func (b *CommandBuffer) IsEmpty() bool {
	return b == nil || len(b.commands) == 0
}

// Clear drops all recorded commands, keeping capacity for reuse
func (b *CommandBuffer) Clear() {
	b.commands = b.commands[:0]
}

// Append validates and records a command
func (b *CommandBuffer) Append(cmd Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	b.commands = append(b.commands, cmd)
	return nil
}

// ClearLayer records a full clear of the given layer bits
func (b *CommandBuffer) ClearLayer(layer Layer) error {
	return b.Append(Command{Op: OpClear, Layer: layer})
}

// Fill records setting layer bits inside r
func (b *CommandBuffer) Fill(r image.Rectangle, layer Layer) error {
	return b.Append(Command{Op: OpFill, Rect: r.Canon(), Layer: layer})
}

// Cut records clearing layer bits inside r
func (b *CommandBuffer) Cut(r image.Rectangle, layer Layer) error {
	return b.Append(Command{Op: OpCut, Rect: r.Canon(), Layer: layer})
}

// Outline records setting layer bits on the border cells of r
func (b *CommandBuffer) Outline(r image.Rectangle, layer Layer) error {
	return b.Append(Command{Op: OpOutline, Rect: r.Canon(), Layer: layer})
}

// Commands returns a copy of the recorded commands in order
func (b *CommandBuffer) Commands() []Command {
	out := make([]Command, len(b.commands))
	copy(out, b.commands)
	return out
}

// Each calls fn for every command in order without copying
func (b *CommandBuffer) Each(fn func(i int, cmd Command)) {
	for i, c := range b.commands {
		fn(i, c)
	}
}

// swap exchanges contents with other, names stay with their buffers
func (b *CommandBuffer) swap(other *CommandBuffer) {
	b.commands, other.commands = other.commands, b.commands
}

package mask

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBuffer_AppendAndClear(t *testing.T) {
	b := NewCommandBuffer("test")
	assert.Equal(t, "test", b.Name())
	assert.True(t, b.IsEmpty())

	require.NoError(t, b.ClearLayer(LayerAll))
	require.NoError(t, b.Fill(image.Rect(5, 5, 0, 0), LayerClip))
	require.NoError(t, b.Cut(image.Rect(1, 1, 2, 2), LayerClip))
	require.NoError(t, b.Outline(image.Rect(0, 0, 3, 3), LayerDebug))

	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4*commandSize, b.SizeInBytes())
	assert.False(t, b.IsEmpty())

	cmds := b.Commands()
	assert.Equal(t, image.Rect(0, 0, 5, 5), cmds[1].Rect, "rects are canonicalized")
	assert.Equal(t, []Op{OpClear, OpFill, OpCut, OpOutline}, []Op{cmds[0].Op, cmds[1].Op, cmds[2].Op, cmds[3].Op})

	b.Clear()
	assert.True(t, b.IsEmpty())
	assert.Len(t, cmds, 4, "Commands returns a copy")
}

func TestCommandBuffer_RejectsInvalid(t *testing.T) {
	b := NewCommandBuffer("test")

	assert.ErrorIs(t, b.Append(Command{Op: OpNone, Layer: LayerClip}), ErrUnknownOp)
	assert.ErrorIs(t, b.Append(Command{Op: Op(42), Layer: LayerClip}), ErrUnknownOp)
	assert.ErrorIs(t, b.Fill(image.Rect(0, 0, 1, 1), LayerNone), ErrNoLayer)
	assert.True(t, b.IsEmpty())
}

func TestCommandBuffer_NilIsEmpty(t *testing.T) {
	var b *CommandBuffer
	assert.True(t, b.IsEmpty())
}

func TestCommandBuffer_Each(t *testing.T) {
	b := NewCommandBuffer("test")
	require.NoError(t, b.Fill(image.Rect(0, 0, 1, 1), LayerClip))
	require.NoError(t, b.Fill(image.Rect(1, 1, 2, 2), LayerInvert))

	var seen []int
	b.Each(func(i int, cmd Command) {
		seen = append(seen, i)
	})
	assert.Equal(t, []int{0, 1}, seen)
}

func TestCommandBuffer_SwapKeepsNames(t *testing.T) {
	a := NewCommandBuffer("a")
	b := NewCommandBuffer("b")
	require.NoError(t, b.Fill(image.Rect(0, 0, 1, 1), LayerClip))

	a.swap(b)
	assert.Equal(t, 1, a.Len())
	assert.True(t, b.IsEmpty())
	assert.Equal(t, "a", a.Name())
	assert.Equal(t, "b", b.Name())
}

func TestParseLayer(t *testing.T) {
	l, err := ParseLayer("overlay")
	require.NoError(t, err)
	assert.Equal(t, LayerOverlay, l)

	_, err = ParseLayer("Overlay")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "clear layer=0xff", Command{Op: OpClear, Layer: LayerAll}.String())
	assert.Equal(t, "fill (0,0)-(2,3) layer=0x01", Command{Op: OpFill, Rect: image.Rect(0, 0, 2, 3), Layer: LayerClip}.String())
	assert.Equal(t, "op(9)", Op(9).String())
}

package types

import (
	"strings"
	"unicode/utf8"

	lsp "go.lsp.dev/protocol"
)

// Rope represents a text data structure.
type Rope struct {
	left  *Rope
	right *Rope
	text  string
}

// NewRope creates a new rope with the given text.
func NewRope(text string) *Rope {
	return &Rope{text: text}
}

func (r *Rope) isLeaf() bool {
	return r.left == nil && r.right == nil
}

// Len returns the length of the text in bytes.
func (r *Rope) Len() int {
	if r.isLeaf() {
		return len(r.text)
	}
	return r.left.Len() + r.right.Len()
}

// Insert inserts text at the specified position in the rope.
func (r *Rope) Insert(position int, text string) {
	if position < 0 || position > r.Len() {
		panic("Invalid position")
	}

	if len(text) == 0 {
		return
	}

	if r.isLeaf() {
		if position == len(r.text) {
			r.text += text
			return
		}

		r.left = NewRope(r.text[:position] + text)
		r.right = NewRope(r.text[position:])
		r.text = ""
		return
	}

	if leftLen := r.left.Len(); position <= leftLen {
		r.left.Insert(position, text)
	} else {
		r.right.Insert(position-leftLen, text)
	}
}

// Delete deletes text from the specified position in the rope.
func (r *Rope) Delete(position, length int) {
	if position < 0 || position >= r.Len() || length <= 0 || position+length > r.Len() {
		panic("Invalid position or length")
	}

	if r.isLeaf() {
		r.text = r.text[:position] + r.text[position+length:]
		return
	}

	leftLen := r.left.Len()
	if position+length <= leftLen {
		r.left.Delete(position, length)
	} else if position >= leftLen {
		r.right.Delete(position-leftLen, length)
	} else {
		r.left.Delete(position, leftLen-position)
		r.right.Delete(0, length-(leftLen-position))
	}
}

// OffsetFromPosition converts an editor position into a byte offset.
// Characters past the end of a line clamp to the line end, lines past the
// end of the text clamp to the text end.
func (r *Rope) OffsetFromPosition(pos lsp.Position) int {
	text := r.ToString()

	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		idx := strings.IndexByte(text[offset:], '\n')
		if idx < 0 {
			return len(text)
		}
		offset += idx + 1
	}

	for char := uint32(0); char < pos.Character && offset < len(text); char++ {
		ch, size := utf8.DecodeRuneInString(text[offset:])
		if ch == '\n' || (ch == '\r' && strings.HasPrefix(text[offset:], "\r\n")) {
			break
		}
		offset += size
	}

	return offset
}

// ToString returns the string representation of the rope.
func (r *Rope) ToString() string {
	if r.isLeaf() {
		return r.text
	}

	var sb strings.Builder
	sb.Grow(r.Len())
	r.writeTo(&sb)
	return sb.String()
}

func (r *Rope) writeTo(sb *strings.Builder) {
	if r.isLeaf() {
		sb.WriteString(r.text)
		return
	}

	r.left.writeTo(sb)
	r.right.writeTo(sb)
}

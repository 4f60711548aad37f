package types

import (
	"testing"

	lsp "go.lsp.dev/protocol"
)

func TestRope(t *testing.T) {
	t.Run("Insert and ToString", func(t *testing.T) {
		r := NewRope("Hello, World!")
		r.Insert(7, "Awesome ")

		expected := "Hello, Awesome World!"
		result := r.ToString()

		if result != expected {
			t.Errorf("Expected: %s, Got: %s", expected, result)
		}
	})

	t.Run("Delete and ToString", func(t *testing.T) {
		r := NewRope("Hello, Awesome World!")
		r.Delete(6, 8)

		expected := "Hello, World!"
		result := r.ToString()

		if result != expected {
			t.Errorf("Expected: %s, Got: %s", expected, result)
		}
	})

	t.Run("Insert Delete and ToString", func(t *testing.T) {
		r := NewRope("Hello, World!")
		r.Insert(7, "Awesome ")
		r.Delete(6, 8)

		expected := "Hello, World!"
		result := r.ToString()

		if result != expected {
			t.Errorf("Expected: %s, Got: %s", expected, result)
		}
	})

	t.Run("Repeated edits", func(t *testing.T) {
		r := NewRope("COUNT    DC    F'0'")
		r.Insert(5, "ER")
		r.Insert(0, "*")
		r.Insert(r.Len(), " end")
		r.Delete(0, 1)
		r.Delete(r.Len()-4, 4)
		r.Insert(14, "  ")

		expected := "COUNTER    DC      F'0'"
		if result := r.ToString(); result != expected {
			t.Errorf("Expected: %q, Got: %q", expected, result)
		}

		if r.Len() != len(expected) {
			t.Errorf("Expected length %d, Got %d", len(expected), r.Len())
		}
	})

	t.Run("Delete across halves", func(t *testing.T) {
		r := NewRope("abcdef")
		r.Insert(3, "XYZ")
		r.Delete(2, 5)

		expected := "abef"
		if result := r.ToString(); result != expected {
			t.Errorf("Expected: %q, Got: %q", expected, result)
		}
	})

	t.Run("Invalid Insert", func(t *testing.T) {
		r := NewRope("Hello, World!")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Insert did not panic on invalid position")
			}
		}()

		r.Insert(15, "Invalid Insert")
	})

	t.Run("Invalid Delete", func(t *testing.T) {
		r := NewRope("Hello, World!")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Delete did not panic on invalid position or length")
			}
		}()

		r.Delete(15, 10)
	})
}

func TestOffsetFromPosition(t *testing.T) {
	t.Run("Valid Position", func(t *testing.T) {
		r := NewRope("Hello, World!\nThis is a test.")
		position := lsp.Position{Line: 1, Character: 6}

		offset := r.OffsetFromPosition(position)

		expected := 20
		if offset != expected {
			t.Errorf("Expected offset: %d, Got offset: %d", expected, offset)
		}
	})

	t.Run("Position Exceeds Line Length", func(t *testing.T) {
		r := NewRope("Hello, World!\nThis is a test.")
		position := lsp.Position{Line: 0, Character: 20}

		offset := r.OffsetFromPosition(position)

		expected := 13 // end of the first line
		if offset != expected {
			t.Errorf("Expected offset: %d, Got offset: %d", expected, offset)
		}
	})

	t.Run("Position Exceeds Line Count", func(t *testing.T) {
		r := NewRope("Hello, World!\nThis is a test.")
		position := lsp.Position{Line: 3, Character: 6}

		offset := r.OffsetFromPosition(position)

		expected := 29 // end of text
		if offset != expected {
			t.Errorf("Expected offset: %d, Got offset: %d", expected, offset)
		}
	})

	t.Run("CRLF line ending", func(t *testing.T) {
		r := NewRope("AB\r\nCD")

		if offset := r.OffsetFromPosition(lsp.Position{Line: 0, Character: 5}); offset != 2 {
			t.Errorf("Expected offset: 2, Got offset: %d", offset)
		}

		if offset := r.OffsetFromPosition(lsp.Position{Line: 1, Character: 1}); offset != 5 {
			t.Errorf("Expected offset: 5, Got offset: %d", offset)
		}
	})
}

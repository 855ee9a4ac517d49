package wm

import "unicode/utf8"

// InputBufferSize bounds the bytes an InputBuffer holds, terminator included.
const InputBufferSize = 256

// InputBuffer collects text typed in assign modes.
type InputBuffer struct {
	buf []byte
}

// NewInputBuffer returns a buffer holding content, truncated to fit.
func NewInputBuffer(content string) *InputBuffer {
	b := &InputBuffer{}
	b.Replace(content)
	return b
}

// Add appends r unless it would overflow the buffer.
func (b *InputBuffer) Add(r rune) bool {
	n := utf8.RuneLen(r)
	if n < 0 || len(b.buf)+n > InputBufferSize-1 {
		return false
	}
	b.buf = utf8.AppendRune(b.buf, r)
	return true
}

// Remove drops the last rune.
func (b *InputBuffer) Remove() {
	if len(b.buf) == 0 {
		return
	}
	_, n := utf8.DecodeLastRune(b.buf)
	b.buf = b.buf[:len(b.buf)-n]
}

// Clear empties the buffer.
func (b *InputBuffer) Clear() {
	b.buf = b.buf[:0]
}

// Replace swaps the content for s, keeping as many whole runes as fit.
func (b *InputBuffer) Replace(s string) {
	b.Clear()
	for _, r := range s {
		if !b.Add(r) {
			return
		}
	}
}

func (b *InputBuffer) String() string { return string(b.buf) }

// Len returns the content size in bytes.
func (b *InputBuffer) Len() int { return len(b.buf) }

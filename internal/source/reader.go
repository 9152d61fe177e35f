package source

// reader.go normalizes raw upload bytes before they reach the CSV parser.
//
//   - bomReader drops a leading UTF-8 byte order mark (Excel on Windows).
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'.
//   - limitReader fails once more than the allowed bytes were read.
//
// Normalize applies them in that order.

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrTooLarge is returned when an input exceeds the configured size limit.
var ErrTooLarge = errors.New("file exceeds the maximum allowed size")

var bom = []byte{0xEF, 0xBB, 0xBF}

type bomReader struct {
	r       *bufio.Reader
	checked bool
}

func newBOMReader(r io.Reader) *bomReader {
	return &bomReader{r: bufio.NewReader(r)}
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, _ := b.r.Peek(len(bom))
		if len(head) == len(bom) && head[0] == bom[0] && head[1] == bom[1] && head[2] == bom[2] {
			if _, err := b.r.Discard(len(bom)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// utf8Sanitizer rewrites invalid UTF-8 in place. A multi-byte sequence cut
// by a read boundary is carried over to the next read.
type utf8Sanitizer struct {
	r     io.Reader
	carry []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, carry: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := copy(p, s.carry)
	s.carry = s.carry[:0]

	m, err := s.r.Read(p[n:])
	n += m
	if n == 0 {
		return 0, err
	}
	return s.sanitize(p[:n], err != nil), err
}

// sanitize compacts buf and returns the number of bytes to hand out.
func (s *utf8Sanitizer) sanitize(buf []byte, final bool) int {
	w := 0
	for i := 0; i < len(buf); {
		c := buf[i]
		if c < utf8.RuneSelf {
			buf[w] = c
			w++
			i++
			continue
		}
		if !final && !utf8.FullRune(buf[i:]) {
			s.carry = append(s.carry, buf[i:]...)
			break
		}
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size == 1 {
			buf[w] = '?'
			w++
			i++
			continue
		}
		copy(buf[w:], buf[i:i+size])
		w += size
		i += size
	}
	return w
}

type limitReader struct {
	r     io.Reader
	left  int64
	total int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.total <= 0 {
		return l.r.Read(p)
	}
	if l.left < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.left+1 {
		p = p[:l.left+1]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

// Normalize wraps r so that it yields BOM-free, valid UTF-8 and fails with
// ErrTooLarge after maxBytes. A non-positive maxBytes disables the limit.
func Normalize(r io.Reader, maxBytes int64) io.Reader {
	limited := &limitReader{r: r, left: maxBytes, total: maxBytes}
	return newUTF8Sanitizer(newBOMReader(limited))
}

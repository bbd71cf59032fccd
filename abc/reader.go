package abc

import (
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Reader: Decodes constant pool sections
// ---------------------------------------------------------------------------

// Reader decodes the string and namespace sections of an ABC constant pool.
//
// Each section is a u30 count followed by count-1 entries; the count
// includes the reserved index 0. A string entry is a u30 byte length and
// that many UTF-8 bytes. A namespace entry is a kind byte and a u30 string
// index.
type Reader struct {
	data   []byte // Full section data
	offset int    // Current read position
}

// NewReader creates a Reader over an io.Reader's full contents.
func NewReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read constant pool data: %w", err)
	}
	return NewReaderFromBytes(data), nil
}

// NewReaderFromBytes creates a Reader over data.
func NewReaderFromBytes(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

// readU8 reads one byte from the current position.
func (r *Reader) readU8() (uint8, error) {
	if r.offset >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	b := r.data[r.offset]
	r.offset++
	return b, nil
}

// readU30 reads a variable-length unsigned integer of at most five bytes
// whose value fits in 30 bits.
func (r *Reader) readU30() (uint32, error) {
	var v uint32
	for i := 0; i < 5; i++ {
		b, err := r.readU8()
		if err != nil {
			return 0, err
		}
		if i == 4 && b > 0x03 {
			return 0, fmt.Errorf("%w: fifth byte %#x", ErrU30Overflow, b)
		}
		v |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			if v>>30 != 0 {
				return 0, fmt.Errorf("%w: %#x", ErrU30Overflow, v)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: more than 5 bytes", ErrU30Overflow)
}

// readString reads a length-prefixed string.
func (r *Reader) readString() (string, error) {
	n, err := r.readU30()
	if err != nil {
		return "", err
	}
	if int(n) > len(r.data)-r.offset {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d", ErrUnexpectedEOF, n, r.offset)
	}
	s := string(r.data[r.offset : r.offset+int(n)])
	r.offset += int(n)
	return s, nil
}

// readCount reads a section count and returns the number of entries that
// follow it.
func (r *Reader) readCount() (int, error) {
	count, err := r.readU30()
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	// Each entry is at least one byte.
	if int(count-1) > len(r.data)-r.offset {
		return 0, fmt.Errorf("%w: count %d exceeds remaining data", ErrUnexpectedEOF, count)
	}
	return int(count - 1), nil
}

// ReadStrings reads a string section.
func (r *Reader) ReadStrings() ([]string, error) {
	n, err := r.readCount()
	if err != nil {
		return nil, fmt.Errorf("string count: %w", err)
	}

	strs := make([]string, n)
	for i := range strs {
		s, err := r.readString()
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i+1, err)
		}
		strs[i] = s
	}
	return strs, nil
}

// ReadNamespaces reads a namespace section. Kind bytes are validated; string
// indices are checked later, when the namespace is resolved.
func (r *Reader) ReadNamespaces() ([]NamespaceEntry, error) {
	n, err := r.readCount()
	if err != nil {
		return nil, fmt.Errorf("namespace count: %w", err)
	}

	entries := make([]NamespaceEntry, n)
	for i := range entries {
		kind, err := r.readU8()
		if err != nil {
			return nil, fmt.Errorf("namespace %d: %w", i+1, err)
		}
		if !NamespaceKind(kind).Valid() {
			return nil, fmt.Errorf("namespace %d: %w: %#x", i+1, ErrInvalidNamespaceKind, kind)
		}
		name, err := r.readU30()
		if err != nil {
			return nil, fmt.Errorf("namespace %d: %w", i+1, err)
		}
		entries[i] = NamespaceEntry{Kind: NamespaceKind(kind), Name: Index(name)}
	}
	return entries, nil
}

// ReadPool reads a string section followed by a namespace section.
func (r *Reader) ReadPool() (*ConstantPool, error) {
	strs, err := r.ReadStrings()
	if err != nil {
		return nil, err
	}
	nss, err := r.ReadNamespaces()
	if err != nil {
		return nil, err
	}
	return &ConstantPool{Strings: strs, Namespaces: nss}, nil
}

// ---------------------------------------------------------------------------
// Writer helpers
// ---------------------------------------------------------------------------

// AppendU30 appends the variable-length encoding of v.
func AppendU30(buf []byte, v uint32) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// AppendPool appends p in the section layout ReadPool expects.
func AppendPool(buf []byte, p *ConstantPool) []byte {
	buf = AppendU30(buf, uint32(len(p.Strings)+1))
	for _, s := range p.Strings {
		buf = AppendU30(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	buf = AppendU30(buf, uint32(len(p.Namespaces)+1))
	for _, ns := range p.Namespaces {
		buf = append(buf, byte(ns.Kind))
		buf = AppendU30(buf, uint32(ns.Name))
	}
	return buf
}

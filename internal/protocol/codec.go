package protocol

import (
	"encoding/binary"
	"fmt"
)

// writer accumulates little-endian payload bytes.
type writer struct {
	buf []byte
}

func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) i16(v int16) {
	w.u16(uint16(v))
}

func (w *writer) i32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *writer) str(s string) {
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// reader consumes little-endian payload bytes, remembering the first error.
// Callers check err() once after all reads.
type reader struct {
	buf []byte
	off int
	bad bool
}

func (r *reader) u16() uint16 {
	if r.bad || r.off+2 > len(r.buf) {
		r.bad = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) i32() int32 {
	if r.bad || r.off+4 > len(r.buf) {
		r.bad = true
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return int32(v)
}

func (r *reader) str() string {
	n := int(r.u16())
	if r.bad || r.off+n > len(r.buf) {
		r.bad = true
		return ""
	}
	s := string(r.buf[r.off : r.off+n])
	r.off += n
	return s
}

func (r *reader) err(pkt string) error {
	if r.bad {
		return fmt.Errorf("malformed %s payload (%d bytes)", pkt, len(r.buf))
	}
	return nil
}

package schem

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// NBT tag ids.
const (
	tagEnd       byte = 0
	tagByte      byte = 1
	tagShort     byte = 2
	tagInt       byte = 3
	tagLong      byte = 4
	tagFloat     byte = 5
	tagDouble    byte = 6
	tagByteArray byte = 7
	tagString    byte = 8
	tagList      byte = 9
	tagCompound  byte = 10
	tagIntArray  byte = 11
	tagLongArray byte = 12
)

const maxNBTDepth = 512

var errNBTTruncated = errors.New("nbt: truncated data")

// nbtWriter emits big-endian NBT in exactly the order its methods are
// called, so equal inputs always give equal bytes. Map based NBT encoders
// leave compound key order unspecified and cannot give that guarantee.
type nbtWriter struct {
	buf bytes.Buffer
}

func (w *nbtWriter) header(tag byte, name string) {
	w.buf.WriteByte(tag)
	w.str(name)
}

func (w *nbtWriter) str(s string) {
	_ = binary.Write(&w.buf, binary.BigEndian, uint16(len(s)))
	w.buf.WriteString(s)
}

func (w *nbtWriter) beginCompound(name string) { w.header(tagCompound, name) }
func (w *nbtWriter) endCompound()              { w.buf.WriteByte(tagEnd) }

func (w *nbtWriter) putShort(name string, v int16) {
	w.header(tagShort, name)
	_ = binary.Write(&w.buf, binary.BigEndian, v)
}

func (w *nbtWriter) putInt(name string, v int32) {
	w.header(tagInt, name)
	_ = binary.Write(&w.buf, binary.BigEndian, v)
}

func (w *nbtWriter) putByteArray(name string, v []byte) {
	w.header(tagByteArray, name)
	_ = binary.Write(&w.buf, binary.BigEndian, int32(len(v)))
	w.buf.Write(v)
}

func (w *nbtWriter) putIntArray(name string, v []int32) {
	w.header(tagIntArray, name)
	_ = binary.Write(&w.buf, binary.BigEndian, int32(len(v)))
	for _, x := range v {
		_ = binary.Write(&w.buf, binary.BigEndian, x)
	}
}

// putEmptyList writes a zero-length list whose element type is elem.
func (w *nbtWriter) putEmptyList(name string, elem byte) {
	w.header(tagList, name)
	w.buf.WriteByte(elem)
	_ = binary.Write(&w.buf, binary.BigEndian, int32(0))
}

func (w *nbtWriter) bytes() []byte { return w.buf.Bytes() }

// compound is a decoded NBT compound. Values are int8, int16, int32, int64,
// float32, float64, []byte, string, []any, compound, []int32 or []int64.
type compound map[string]any

// readNBT parses one named root tag, which must be a compound.
func readNBT(data []byte) (string, compound, error) {
	r := &nbtReader{data: data}
	tag, err := r.u8()
	if err != nil {
		return "", nil, err
	}
	if tag != tagCompound {
		return "", nil, fmt.Errorf("nbt: root tag %d is not a compound", tag)
	}
	name, err := r.str()
	if err != nil {
		return "", nil, err
	}
	v, err := r.payload(tagCompound, 0)
	if err != nil {
		return "", nil, err
	}
	return name, v.(compound), nil
}

type nbtReader struct {
	data []byte
	pos  int
}

func (r *nbtReader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, errNBTTruncated
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *nbtReader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *nbtReader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *nbtReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *nbtReader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *nbtReader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// length reads a signed array length and checks it against the bytes left.
func (r *nbtReader) length(elemSize int) (int, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	n := int(int32(v))
	if n < 0 || n > (len(r.data)-r.pos)/max(elemSize, 1) {
		return 0, fmt.Errorf("nbt: bad array length %d", n)
	}
	return n, nil
}

func (r *nbtReader) payload(tag byte, depth int) (any, error) {
	if depth > maxNBTDepth {
		return nil, errors.New("nbt: nesting too deep")
	}
	switch tag {
	case tagByte:
		b, err := r.u8()
		return int8(b), err
	case tagShort:
		v, err := r.u16()
		return int16(v), err
	case tagInt:
		v, err := r.u32()
		return int32(v), err
	case tagLong:
		v, err := r.u64()
		return int64(v), err
	case tagFloat:
		v, err := r.u32()
		return math.Float32frombits(v), err
	case tagDouble:
		v, err := r.u64()
		return math.Float64frombits(v), err
	case tagByteArray:
		n, err := r.length(1)
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	case tagString:
		return r.str()
	case tagList:
		elem, err := r.u8()
		if err != nil {
			return nil, err
		}
		n, err := r.length(1)
		if err != nil {
			return nil, err
		}
		if n > 0 && elem == tagEnd {
			return nil, errors.New("nbt: non-empty list of end tags")
		}
		list := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := r.payload(elem, depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case tagCompound:
		c := compound{}
		for {
			t, err := r.u8()
			if err != nil {
				return nil, err
			}
			if t == tagEnd {
				return c, nil
			}
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			v, err := r.payload(t, depth+1)
			if err != nil {
				return nil, err
			}
			c[name] = v
		}
	case tagIntArray:
		n, err := r.length(4)
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			v, _ := r.u32()
			out[i] = int32(v)
		}
		return out, nil
	case tagLongArray:
		n, err := r.length(8)
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			v, _ := r.u64()
			out[i] = int64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("nbt: unknown tag %d", tag)
	}
}

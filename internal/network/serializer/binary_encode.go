package serializer

import (
	"encoding/binary"
	"io"
	"math"
	"reflect"

	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// binEncoder 将 reflect.Value 按 Config 规则写入 w。
type binEncoder struct {
	w       io.Writer
	cfg     Config
	scratch [binary.MaxVarintLen64]byte
}

func (e *binEncoder) encodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b := byte(0)
		if v.Bool() {
			b = 1
		}
		return e.writeBytes([]byte{b})

	case reflect.Int8:
		return e.writeBytes([]byte{byte(v.Int())})
	case reflect.Uint8:
		return e.writeBytes([]byte{byte(v.Uint())})

	case reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return e.writeInt(v.Int(), fixedWidth(v.Kind()))
	case reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return e.writeUint(v.Uint(), fixedWidth(v.Kind()))

	case reflect.Float32:
		e.cfg.ByteOrder.PutUint32(e.scratch[:4], math.Float32bits(float32(v.Float())))
		return e.writeBytes(e.scratch[:4])
	case reflect.Float64:
		e.cfg.ByteOrder.PutUint64(e.scratch[:8], math.Float64bits(v.Float()))
		return e.writeBytes(e.scratch[:8])

	case reflect.String:
		if err := e.writeLen(v.Len()); err != nil {
			return err
		}
		return e.writeBytes([]byte(v.String()))

	case reflect.Slice:
		if err := e.writeLen(v.Len()); err != nil {
			return err
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return e.writeBytes(v.Bytes())
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if err := e.writeLen(v.Len()); err != nil {
			return err
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := e.encodeValue(iter.Key()); err != nil {
				return err
			}
			if err := e.encodeValue(iter.Value()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			// 非导出字段不参与编码，与解码侧保持一致。
			if t.Field(i).PkgPath != "" {
				continue
			}
			if err := e.encodeValue(v.Field(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Pointer:
		if v.IsNil() {
			return e.writeBytes([]byte{0})
		}
		if err := e.writeBytes([]byte{1}); err != nil {
			return err
		}
		return e.encodeValue(v.Elem())

	default:
		return merr.WrapErrTypeUnsupported(v.Kind().String())
	}
}

// writeInt 编码有符号整数。变长模式使用 zigzag varint。
func (e *binEncoder) writeInt(x int64, width int) error {
	if e.cfg.IntEncoding == VarIntEncoding {
		n := binary.PutVarint(e.scratch[:], x)
		return e.writeBytes(e.scratch[:n])
	}
	return e.writeUint(uint64(x), width)
}

// writeUint 编码无符号整数（定长模式同时承担有符号整数的位模式写出）。
func (e *binEncoder) writeUint(x uint64, width int) error {
	if e.cfg.IntEncoding == VarIntEncoding {
		n := binary.PutUvarint(e.scratch[:], x)
		return e.writeBytes(e.scratch[:n])
	}
	switch width {
	case 2:
		e.cfg.ByteOrder.PutUint16(e.scratch[:2], uint16(x))
	case 4:
		e.cfg.ByteOrder.PutUint32(e.scratch[:4], uint32(x))
	default:
		e.cfg.ByteOrder.PutUint64(e.scratch[:8], x)
		width = 8
	}
	return e.writeBytes(e.scratch[:width])
}

// writeLen 编码集合长度，统一按 uint64 处理。
func (e *binEncoder) writeLen(n int) error {
	return e.writeUint(uint64(n), 8)
}

func (e *binEncoder) writeBytes(p []byte) error {
	_, err := e.w.Write(p)
	return err
}

// fixedWidth 返回定长编码下各整数类型占用的字节数。
func fixedWidth(k reflect.Kind) int {
	switch k {
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32:
		return 4
	default:
		// int/uint 统一按 8 字节编码，保证 32/64 位平台互通。
		return 8
	}
}

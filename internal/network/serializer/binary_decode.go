package serializer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// binDecoder 从 r 中按 Config 规则还原 reflect.Value。
//
// 约束：只读取当前值需要的字节，绝不预读。短读产生的 io.EOF /
// io.ErrUnexpectedEOF 会原样向上传播，由序列化错误包装。
type binDecoder struct {
	r       io.Reader
	cfg     Config
	scratch [8]byte
}

func (d *binDecoder) decodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		v.SetBool(b != 0)
		return nil

	case reflect.Int8:
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		v.SetInt(int64(int8(b)))
		return nil
	case reflect.Uint8:
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		v.SetUint(uint64(b))
		return nil

	case reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		x, err := d.readInt(fixedWidth(v.Kind()))
		if err != nil {
			return err
		}
		if v.OverflowInt(x) {
			return fmt.Errorf("value %d overflows %s", x, v.Type())
		}
		v.SetInt(x)
		return nil
	case reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		x, err := d.readUint(fixedWidth(v.Kind()))
		if err != nil {
			return err
		}
		if v.OverflowUint(x) {
			return fmt.Errorf("value %d overflows %s", x, v.Type())
		}
		v.SetUint(x)
		return nil

	case reflect.Float32:
		if err := d.readFull(d.scratch[:4]); err != nil {
			return err
		}
		v.SetFloat(float64(math.Float32frombits(d.cfg.ByteOrder.Uint32(d.scratch[:4]))))
		return nil
	case reflect.Float64:
		if err := d.readFull(d.scratch[:8]); err != nil {
			return err
		}
		v.SetFloat(math.Float64frombits(d.cfg.ByteOrder.Uint64(d.scratch[:8])))
		return nil

	case reflect.String:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		raw, err := d.readRaw(n)
		if err != nil {
			return err
		}
		v.SetString(string(raw))
		return nil

	case reflect.Slice:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			raw, err := d.readRaw(n)
			if err != nil {
				return err
			}
			v.SetBytes(raw)
			return nil
		}
		if n == 0 {
			// 空集合还原为 nil，与编码侧对 nil 切片的处理对称。
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		// 逐元素追加而非一次性分配，上限由 readLen 的 SizeLimit 校验兜底。
		out := reflect.MakeSlice(v.Type(), 0, 0)
		for i := 0; i < n; i++ {
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := d.decodeValue(elem); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		v.Set(out)
		return nil

	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := d.decodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		out := reflect.MakeMapWithSize(v.Type(), min(n, 4096))
		for i := 0; i < n; i++ {
			key := reflect.New(v.Type().Key()).Elem()
			if err := d.decodeValue(key); err != nil {
				return err
			}
			val := reflect.New(v.Type().Elem()).Elem()
			if err := d.decodeValue(val); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		v.Set(out)
		return nil

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).PkgPath != "" {
				continue
			}
			if err := d.decodeValue(v.Field(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Pointer:
		tag, err := d.ReadByte()
		if err != nil {
			return err
		}
		switch tag {
		case 0:
			v.Set(reflect.Zero(v.Type()))
			return nil
		case 1:
			elem := reflect.New(v.Type().Elem())
			if err := d.decodeValue(elem.Elem()); err != nil {
				return err
			}
			v.Set(elem)
			return nil
		default:
			return fmt.Errorf("invalid pointer tag %#x", tag)
		}

	default:
		return merr.WrapErrTypeUnsupported(v.Kind().String())
	}
}

// ReadByte 实现 io.ByteReader，供 varint 解码逐字节消费。
func (d *binDecoder) ReadByte() (byte, error) {
	if err := d.readFull(d.scratch[:1]); err != nil {
		return 0, err
	}
	return d.scratch[0], nil
}

func (d *binDecoder) readInt(width int) (int64, error) {
	if d.cfg.IntEncoding == VarIntEncoding {
		return binary.ReadVarint(d)
	}
	x, err := d.readUint(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 2:
		return int64(int16(x)), nil
	case 4:
		return int64(int32(x)), nil
	default:
		return int64(x), nil
	}
}

func (d *binDecoder) readUint(width int) (uint64, error) {
	if d.cfg.IntEncoding == VarIntEncoding {
		return binary.ReadUvarint(d)
	}
	switch width {
	case 2:
		if err := d.readFull(d.scratch[:2]); err != nil {
			return 0, err
		}
		return uint64(d.cfg.ByteOrder.Uint16(d.scratch[:2])), nil
	case 4:
		if err := d.readFull(d.scratch[:4]); err != nil {
			return 0, err
		}
		return uint64(d.cfg.ByteOrder.Uint32(d.scratch[:4])), nil
	default:
		if err := d.readFull(d.scratch[:8]); err != nil {
			return 0, err
		}
		return d.cfg.ByteOrder.Uint64(d.scratch[:8]), nil
	}
}

// readLen 解码集合长度并做上限校验。
func (d *binDecoder) readLen() (int, error) {
	x, err := d.readUint(8)
	if err != nil {
		return 0, err
	}
	if d.cfg.SizeLimit > 0 && x > d.cfg.SizeLimit {
		return 0, merr.WrapErrSizeLimitExceeded(x, d.cfg.SizeLimit)
	}
	if x > uint64(math.MaxInt) {
		return 0, fmt.Errorf("declared length %d overflows int", x)
	}
	return int(x), nil
}

// readRaw 读取 n 个原始字节，n 为 0 时返回 nil。
// 分块追加而非一次性 make(n)，防止伪造的超大长度在读取前就完成分配。
func (d *binDecoder) readRaw(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	const chunk = 1 << 20
	out := make([]byte, 0, min(n, chunk))
	for len(out) < n {
		m := min(n-len(out), chunk)
		start := len(out)
		out = append(out, make([]byte, m)...)
		if err := d.readFull(out[start:]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *binDecoder) readFull(p []byte) error {
	_, err := io.ReadFull(d.r, p)
	return err
}

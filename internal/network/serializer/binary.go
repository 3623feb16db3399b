package serializer

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// BinarySerializer 实现了一种自描述的二进制格式，是游标式分帧的默认格式。
//
// 编码规则（两端 Config 必须一致）：
//   - bool：1 字节（0/1）；
//   - int8/uint8：1 字节；
//   - 其余整数：按 Config.IntEncoding 定长或变长编码；
//   - float32/float64：IEEE 754 位模式，定长；
//   - string/[]byte：长度 + 原始字节；
//   - slice/map：长度 + 逐元素编码；array：逐元素编码（长度隐含在类型中）；
//   - struct：按导出字段声明顺序逐字段编码；
//   - 指针：1 字节存在标记，非 nil 时后随指向值。
//
// 解码侧只读取格式要求的字节，不做任何预读，
// 因此“读取量即消费量”，满足 StreamSerializer 的约束。
type BinarySerializer struct {
	cfg Config
}

// 编译期断言：确保 BinarySerializer 实现了 StreamSerializer 接口。
var _ StreamSerializer = (*BinarySerializer)(nil)

// NewBinary 基于给定配置创建二进制序列化器。
// 配置中的非法取值不在此处校验，首次编解码时才会暴露为错误。
func NewBinary(cfg Config) *BinarySerializer {
	return &BinarySerializer{cfg: cfg.normalize()}
}

func (s *BinarySerializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := binEncoder{w: &buf, cfg: s.cfg}
	if err := enc.encodeValue(reflect.ValueOf(v)); err != nil {
		return nil, merr.WrapErrSerializeFailed(typeName(v), err)
	}
	if s.cfg.SizeLimit > 0 && uint64(buf.Len()) > s.cfg.SizeLimit {
		return nil, merr.WrapErrSizeLimitExceeded(uint64(buf.Len()), s.cfg.SizeLimit)
	}
	return buf.Bytes(), nil
}

func (s *BinarySerializer) MarshalSize(v any) (int, error) {
	cw := countingWriter{}
	enc := binEncoder{w: &cw, cfg: s.cfg}
	if err := enc.encodeValue(reflect.ValueOf(v)); err != nil {
		return 0, merr.WrapErrSerializeFailed(typeName(v), err)
	}
	if s.cfg.SizeLimit > 0 && uint64(cw.n) > s.cfg.SizeLimit {
		return 0, merr.WrapErrSizeLimitExceeded(uint64(cw.n), s.cfg.SizeLimit)
	}
	return cw.n, nil
}

func (s *BinarySerializer) Unmarshal(data []byte, v any) error {
	r := bytes.NewReader(data)
	if err := s.UnmarshalFrom(r, v); err != nil {
		return err
	}
	if r.Len() > 0 {
		return merr.WrapErrDeserializeFailed(typeName(v),
			fmt.Errorf("%d trailing bytes after value", r.Len()))
	}
	return nil
}

func (s *BinarySerializer) UnmarshalFrom(r io.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return merr.WrapErrParameterInvalid("non-nil pointer", typeName(v))
	}
	dec := binDecoder{r: r, cfg: s.cfg}
	if err := dec.decodeValue(rv.Elem()); err != nil {
		return merr.WrapErrDeserializeFailed(typeName(v), err)
	}
	return nil
}

// typeName 返回用于错误信息的对象类型名。
func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

// countingWriter 只统计写入量，供 MarshalSize 复用编码逻辑。
type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}

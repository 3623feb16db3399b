package framer

import (
	"encoding/binary"
	"strconv"

	"github.com/lk2023060901/streamframe-go/pkg/buffer/bytesbuf"
	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// LengthPrefixedFramer 使用长度前缀作为帧边界，适用于基于流的连接
// （如 TCP、WebSocket 原始流等）。
//
// 约定：
//   - 一帧数据的格式为：长度前缀（宽度与字节序可配置）+ 载荷字节；
//   - Decode 在数据不足一帧时返回 (nil, false, nil) 且不消费任何字节；
//   - 前缀一旦被消费，待读的载荷长度会保留在实例内部直到载荷凑齐，
//     因此同一实例绝不能横跨两条字节流使用。
type LengthPrefixedFramer struct {
	maxFrameSize   uint64
	lengthFieldLen int
	byteOrder      binary.ByteOrder

	// pending 为已消费前缀、尚未凑齐的载荷长度；-1 表示前缀未读。
	pending int
}

const (
	// DefaultMaxFrameSize 为允许的最大帧载荷，单位字节。
	DefaultMaxFrameSize uint64 = 16 * 1024 * 1024 // 16MB
	// DefaultLengthFieldLen 为默认的长度前缀宽度，单位字节。
	DefaultLengthFieldLen = 4
)

// Builder 以链式调用方式配置 LengthPrefixedFramer。
//
// 配置取值不在构建期校验，非法取值在首次 Encode/Decode 时暴露为错误。
type Builder struct {
	maxFrameSize   uint64
	lengthFieldLen int
	byteOrder      binary.ByteOrder
}

// NewBuilder 创建一个携带默认配置的 Builder。
func NewBuilder() *Builder {
	return &Builder{
		maxFrameSize:   DefaultMaxFrameSize,
		lengthFieldLen: DefaultLengthFieldLen,
		byteOrder:      binary.BigEndian,
	}
}

// MaxFrameSize 设置单帧载荷的最大字节数，0 时回落到默认值。
func (b *Builder) MaxFrameSize(n uint64) *Builder {
	if n == 0 {
		n = DefaultMaxFrameSize
	}
	b.maxFrameSize = n
	return b
}

// LengthFieldLength 设置长度前缀宽度，合法取值为 1、2、4、8。
func (b *Builder) LengthFieldLength(n int) *Builder {
	b.lengthFieldLen = n
	return b
}

// ByteOrder 设置长度前缀的字节序，仅支持 binary.BigEndian 与 binary.LittleEndian。
func (b *Builder) ByteOrder(order binary.ByteOrder) *Builder {
	b.byteOrder = order
	return b
}

// Build 构建一个新的 LengthPrefixedFramer 实例。
// 同一 Builder 可多次 Build，每个实例持有独立的前缀解析状态。
func (b *Builder) Build() *LengthPrefixedFramer {
	return &LengthPrefixedFramer{
		maxFrameSize:   b.maxFrameSize,
		lengthFieldLen: b.lengthFieldLen,
		byteOrder:      b.byteOrder,
		pending:        -1,
	}
}

// NewLengthPrefixedFramer 创建一个默认配置的帧编码器：
// 4 字节大端前缀，单帧上限 16MB。
func NewLengthPrefixedFramer() *LengthPrefixedFramer {
	return NewBuilder().Build()
}

// Encode 将 blob 作为一帧（长度前缀 + 载荷）追加到 buf 尾部。
func (f *LengthPrefixedFramer) Encode(blob []byte, buf *bytesbuf.Buffer) error {
	if err := f.checkFieldLen(); err != nil {
		return err
	}

	length := uint64(len(blob))
	if length > f.maxFrameSize {
		return merr.WrapErrFrameTooLarge(length, f.maxFrameSize)
	}
	if max := maxRepresentable(f.lengthFieldLen); length > max {
		return merr.WrapErrFrameTooLarge(length, max)
	}

	buf.Reserve(f.lengthFieldLen + len(blob))

	var prefix [8]byte
	f.putUint(prefix[:f.lengthFieldLen], length)
	_, _ = buf.Write(prefix[:f.lengthFieldLen])
	_, _ = buf.Write(blob)
	return nil
}

// Decode 尝试从 buf 中取出一帧完整载荷。
//
// 返回值：
//   - (blob, true, nil)：取到一帧，前缀与载荷已从 buf 中消费；
//   - (nil, false, nil)：数据不足一帧，buf 未被改动（前缀可能已在
//     之前的调用中消费，由 pending 记录）；
//   - (nil, false, err)：前缀损坏或超限，错误对当前流不可恢复。
func (f *LengthPrefixedFramer) Decode(buf *bytesbuf.Buffer) ([]byte, bool, error) {
	if err := f.checkFieldLen(); err != nil {
		return nil, false, err
	}

	if f.pending < 0 {
		if buf.Len() < f.lengthFieldLen {
			return nil, false, nil
		}
		length := f.readUint(buf.Bytes()[:f.lengthFieldLen])
		if length > f.maxFrameSize {
			return nil, false, merr.WrapErrFrameTooLarge(length, f.maxFrameSize)
		}
		if err := buf.Advance(f.lengthFieldLen); err != nil {
			return nil, false, err
		}
		f.pending = int(length)
	}

	if buf.Len() < f.pending {
		return nil, false, nil
	}

	blob := make([]byte, f.pending)
	copy(blob, buf.Bytes()[:f.pending])
	if err := buf.Advance(f.pending); err != nil {
		return nil, false, err
	}
	f.pending = -1
	return blob, true, nil
}

func (f *LengthPrefixedFramer) checkFieldLen() error {
	switch f.lengthFieldLen {
	case 1, 2, 4, 8:
		return nil
	default:
		return merr.WrapErrParameterInvalid("1/2/4/8", strconv.Itoa(f.lengthFieldLen), "length field length")
	}
}

func (f *LengthPrefixedFramer) putUint(dst []byte, x uint64) {
	switch len(dst) {
	case 1:
		dst[0] = byte(x)
	case 2:
		f.byteOrder.PutUint16(dst, uint16(x))
	case 4:
		f.byteOrder.PutUint32(dst, uint32(x))
	default:
		f.byteOrder.PutUint64(dst, x)
	}
}

func (f *LengthPrefixedFramer) readUint(src []byte) uint64 {
	switch len(src) {
	case 1:
		return uint64(src[0])
	case 2:
		return uint64(f.byteOrder.Uint16(src))
	case 4:
		return uint64(f.byteOrder.Uint32(src))
	default:
		return f.byteOrder.Uint64(src)
	}
}

// maxRepresentable 返回给定前缀宽度能表示的最大载荷长度。
func maxRepresentable(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(width)) - 1
}

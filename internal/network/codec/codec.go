// Package codec 将可序列化的消息类型桥接到字节流传输之上：
// 发送侧把内存对象追加编码进发送缓冲区，接收侧从累积的接收缓冲区中
// 还原离散消息并精确上报消费的字节数。
//
// 两种分帧策略在构造期二选一：
//
//   - 游标式（FramingRaw）：不加任何定界信息，帧边界完全依赖序列化
//     格式自身的自描述结构，由 consumingReader 记录实际消费量；
//   - 长度前缀式（FramingLengthPrefixed）：把“等待一帧凑齐”的职责
//     整体下沉给 framer.LengthPrefixedFramer。
//
// 两种策略在半包场景下的失败行为截然不同（见 Decode 注释），
// 因此保持为显式可选的两种策略，不做合并。
package codec

import (
	"github.com/lk2023060901/streamframe-go/internal/network/framer"
	"github.com/lk2023060901/streamframe-go/internal/network/serializer"
	"github.com/lk2023060901/streamframe-go/pkg/buffer/bytesbuf"
	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// Framing 表示分帧策略。
type Framing uint8

const (
	// FramingRaw 为游标式分帧：消息间直接拼接，无定界信息。
	FramingRaw Framing = iota
	// FramingLengthPrefixed 为长度前缀分帧：[前缀][载荷] 重复。
	FramingLengthPrefixed
)

// String 返回策略的监控/日志用名称。
func (f Framing) String() string {
	switch f {
	case FramingLengthPrefixed:
		return "length_prefixed"
	default:
		return "raw"
	}
}

// Options 用于构造 Codec 的参数。
type Options struct {
	// Serializer 为序列化实现，nil 时使用默认配置的二进制序列化器。
	//
	// 游标式分帧要求实现 serializer.StreamSerializer；
	// 不满足时构造不报错，首次编解码时报 ErrParameterInvalid。
	Serializer serializer.Serializer

	// Framing 为分帧策略，默认游标式。
	Framing Framing

	// Builder 为长度前缀分帧的子分帧器配置，nil 时使用默认配置。
	// 仅在 Framing 为 FramingLengthPrefixed 时生效。
	Builder *framer.Builder
}

// Codec 是绑定到单一消息类型 T 的编解码器。
//
// 使用约束：
//   - 一个实例只服务一条逻辑流（收发两个方向可共用）；
//   - 长度前缀模式下实例持有子分帧器的前缀解析状态，
//     绝不能在多条字节流之间共享，除非重新构造；
//   - 实例不做内部加锁，并发调用需要外部互斥。
type Codec[T any] struct {
	ser   serializer.Serializer
	lower *framer.LengthPrefixedFramer // 仅长度前缀模式非 nil
}

// New 创建一个默认编解码器：游标式分帧 + 默认二进制序列化。
func New[T any]() *Codec[T] {
	return WithOptions[T](Options{})
}

// NewLengthPrefixed 创建一个长度前缀分帧的编解码器，
// 子分帧器使用默认配置（4 字节大端前缀、单帧上限 16MB）。
func NewLengthPrefixed[T any]() *Codec[T] {
	return WithOptions[T](Options{Framing: FramingLengthPrefixed})
}

// WithOptions 按给定参数创建编解码器。
//
// 构造本身没有失败路径；非法参数（如游标式搭配无法流式解码的
// 序列化器）推迟到首次使用时报错。
func WithOptions[T any](opts Options) *Codec[T] {
	c := &Codec[T]{ser: opts.Serializer}
	if c.ser == nil {
		c.ser = serializer.NewBinary(serializer.DefaultConfig())
	}
	if opts.Framing == FramingLengthPrefixed {
		if opts.Builder != nil {
			c.lower = opts.Builder.Build()
		} else {
			c.lower = framer.NewLengthPrefixedFramer()
		}
	}
	return c
}

// Framing 返回当前实例使用的分帧策略。
func (c *Codec[T]) Framing() Framing {
	if c.lower != nil {
		return FramingLengthPrefixed
	}
	return FramingRaw
}

// Decode 尝试从接收缓冲区中还原至多一条消息。
//
// 返回值：
//   - (msg, true, nil)：得到一条消息，buf 已前进对应字节数，
//     后续消息的字节原样保留；
//   - (零值, false, nil)：数据尚不足一条消息，buf 未被改动；
//   - (零值, false, err)：解码失败，buf 未被改动，错误对当前流不可恢复。
//
// 已知限制（游标式分帧，特意保留）：该策略无法区分“数据损坏”与
// “消息尚未完整到达”——半包会直接表现为反序列化硬错误而非等待信号，
// 下游按流终止处理。需要分片到达语义时应选择长度前缀分帧。
func (c *Codec[T]) Decode(buf *bytesbuf.Buffer) (msg T, ok bool, err error) {
	if c.lower != nil {
		return c.decodeLengthPrefixed(buf)
	}
	return c.decodeRaw(buf)
}

func (c *Codec[T]) decodeRaw(buf *bytesbuf.Buffer) (msg T, ok bool, err error) {
	if buf.IsEmpty() {
		// 空缓冲区是唯一的“还没有消息”情形，不区分流未开始与消息间隙。
		return msg, false, nil
	}

	stream, err := c.streamSerializer()
	if err != nil {
		return msg, false, err
	}

	reader := newConsumingReader(buf.Bytes())
	var v T
	if err := stream.UnmarshalFrom(reader, &v); err != nil {
		return msg, false, err
	}

	// 只前进反序列化实际消费的字节，后续消息保留在缓冲区中。
	if err := buf.Advance(reader.Amount()); err != nil {
		return msg, false, err
	}
	return v, true, nil
}

func (c *Codec[T]) decodeLengthPrefixed(buf *bytesbuf.Buffer) (msg T, ok bool, err error) {
	blob, ok, err := c.lower.Decode(buf)
	if err != nil || !ok {
		return msg, false, err
	}

	// 子分帧器保证 blob 恰好是一条消息的完整编码，无需游标跟踪。
	var v T
	if err := c.ser.Unmarshal(blob, &v); err != nil {
		return msg, false, err
	}
	return v, true, nil
}

// Encode 将 item 的线上表示追加到发送缓冲区尾部。
//
// 游标式分帧先计算精确编码大小并预留容量，再序列化、原样追加；
// 长度前缀分帧先序列化，再交由子分帧器加前缀写入。
// 两种路径都保证：任何失败发生在向 buf 追加任何字节之前。
func (c *Codec[T]) Encode(item T, buf *bytesbuf.Buffer) error {
	if c.lower != nil {
		blob, err := c.ser.Marshal(item)
		if err != nil {
			return err
		}
		return c.lower.Encode(blob, buf)
	}

	stream, err := c.streamSerializer()
	if err != nil {
		return err
	}

	size, err := stream.MarshalSize(item)
	if err != nil {
		return err
	}
	buf.Reserve(size)

	data, err := stream.Marshal(item)
	if err != nil {
		return err
	}
	_, _ = buf.Write(data)
	return nil
}

// streamSerializer 校验当前序列化器满足游标式分帧的约束。
func (c *Codec[T]) streamSerializer() (serializer.StreamSerializer, error) {
	stream, ok := c.ser.(serializer.StreamSerializer)
	if !ok {
		return nil, merr.WrapErrParameterInvalid(
			"serializer.StreamSerializer", typeNameOf(c.ser), "raw framing requires stream deserialization")
	}
	return stream, nil
}

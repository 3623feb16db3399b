package serializer

import "io"

// Serializer 抽象了网络层“对象 <-> 字节流”的序列化能力。
//
// 设计目标：
//   - 面向网络消息编码，既支持自描述二进制格式，也支持 JSON、Protobuf。
//   - 调用方通过接口注入具体实现，便于后续扩展其它序列化方案。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	// data 必须恰好包含一个完整编码值，多余字节视为数据损坏。
	Unmarshal(data []byte, v any) error
}

// StreamSerializer 在 Serializer 之上增加游标式分帧所需的两个能力：
//
//   - MarshalSize：在不产生输出的前提下计算编码后的精确大小，
//     供编码侧提前预留缓冲区容量；
//   - UnmarshalFrom：从 Reader 中精确读取一个值所需的字节，不多读一个字节。
//     帧边界由格式自身的结构决定，因此实现不允许做任何预读。
//
// 只有满足“读取量即消费量”这一约束的格式才能用于游标式分帧；
// JSON、Protobuf 等无法从流中自定界的格式只实现 Serializer。
type StreamSerializer interface {
	Serializer

	// MarshalSize 返回 v 编码后的字节数。
	MarshalSize(v any) (int, error)

	// UnmarshalFrom 从 r 中解码一个值到 v。
	//
	// 读到流末尾（数据不足一个完整值）时返回反序列化错误，调用方无法
	// 区分“数据损坏”与“数据未到齐”，该语义由游标式分帧策略继承。
	UnmarshalFrom(r io.Reader, v any) error
}

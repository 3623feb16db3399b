package serializer

import "encoding/binary"

// IntEncoding 表示多字节整数的编码方式。
type IntEncoding uint8

const (
	// FixedIntEncoding 按类型宽度定长编码（int/uint 视为 8 字节）。
	FixedIntEncoding IntEncoding = iota
	// VarIntEncoding 使用变长编码：无符号为 uvarint，有符号为 zigzag varint。
	// 浮点数与单字节整数不受影响，始终定长。
	VarIntEncoding
)

// Config 描述二进制序列化器的编码参数。
//
// 同一条流的两端必须使用完全一致的 Config，否则解码结果不可预期。
// 构造后不可变，可被同一实例的所有编解码调用共享。
type Config struct {
	// ByteOrder 为定长整数与浮点数的字节序，nil 时取小端。
	ByteOrder binary.ByteOrder

	// IntEncoding 为整数编码方式，默认定长。
	IntEncoding IntEncoding

	// SizeLimit 限制单个值编码后的总字节数以及解码时集合/字符串的
	// 声明长度，0 表示不限制。超限返回 ErrSizeLimitExceeded。
	SizeLimit uint64
}

// DefaultConfig 返回默认配置：小端、定长整数、不限制大小。
func DefaultConfig() Config {
	return Config{
		ByteOrder:   binary.LittleEndian,
		IntEncoding: FixedIntEncoding,
	}
}

// normalize 填充零值字段，返回可直接使用的配置副本。
func (c Config) normalize() Config {
	if c.ByteOrder == nil {
		c.ByteOrder = binary.LittleEndian
	}
	return c
}

package serializer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

type testHeader struct {
	Magic   [2]byte
	Version uint16
}

type testMessage struct {
	ID      uint64
	Kind    uint8
	Name    string
	Score   float64
	Flags   []uint32
	Payload []byte
	Extra   *testHeader
	Attrs   map[string]int32

	internal int // 非导出字段不参与编解码
}

func sampleMessage() testMessage {
	return testMessage{
		ID:      42,
		Kind:    7,
		Name:    "streamframe",
		Score:   3.25,
		Flags:   []uint32{1, 2, 3},
		Payload: []byte{0xde, 0xad, 0xbe, 0xef},
		Extra:   &testHeader{Magic: [2]byte{'S', 'F'}, Version: 9},
		Attrs:   map[string]int32{"a": -1, "b": 2},
	}
}

type BinarySuite struct {
	suite.Suite
}

func (s *BinarySuite) configs() map[string]Config {
	return map[string]Config{
		"default":           DefaultConfig(),
		"big_endian":        {ByteOrder: binary.BigEndian},
		"varint":            {IntEncoding: VarIntEncoding},
		"big_endian_varint": {ByteOrder: binary.BigEndian, IntEncoding: VarIntEncoding},
	}
}

func (s *BinarySuite) TestRoundTrip() {
	for name, cfg := range s.configs() {
		s.Run(name, func() {
			ser := NewBinary(cfg)
			in := sampleMessage()

			data, err := ser.Marshal(in)
			s.NoError(err)

			var out testMessage
			s.NoError(ser.Unmarshal(data, &out))
			s.Equal(in.ID, out.ID)
			s.Equal(in.Kind, out.Kind)
			s.Equal(in.Name, out.Name)
			s.Equal(in.Score, out.Score)
			s.Equal(in.Flags, out.Flags)
			s.Equal(in.Payload, out.Payload)
			s.Equal(in.Extra, out.Extra)
			s.Equal(in.Attrs, out.Attrs)
			s.Zero(out.internal)
		})
	}
}

func (s *BinarySuite) TestScalars() {
	ser := NewBinary(DefaultConfig())
	type scalars struct {
		B  bool
		I8 int8
		I  int
		I6 int16
		U  uint
		F3 float32
	}
	in := scalars{B: true, I8: -8, I: -123456789, I6: -300, U: 1 << 40, F3: 1.5}

	data, err := ser.Marshal(in)
	s.NoError(err)

	var out scalars
	s.NoError(ser.Unmarshal(data, &out))
	s.Equal(in, out)
}

func (s *BinarySuite) TestMarshalSizeMatches() {
	for name, cfg := range s.configs() {
		s.Run(name, func() {
			ser := NewBinary(cfg)
			in := sampleMessage()

			size, err := ser.MarshalSize(in)
			s.NoError(err)
			data, err := ser.Marshal(in)
			s.NoError(err)
			s.Equal(len(data), size)
		})
	}
}

func (s *BinarySuite) TestUnmarshalFromConsumesExactly() {
	ser := NewBinary(DefaultConfig())
	in := sampleMessage()
	data, err := ser.Marshal(in)
	s.NoError(err)

	// 编码值后面跟随无关字节，解码必须恰好停在值边界。
	r := bytes.NewReader(append(data, []byte("trailing")...))
	var out testMessage
	s.NoError(ser.UnmarshalFrom(r, &out))
	s.Equal(len("trailing"), r.Len())
}

func (s *BinarySuite) TestUnmarshalRejectsTrailingBytes() {
	ser := NewBinary(DefaultConfig())
	data, err := ser.Marshal(uint32(1))
	s.NoError(err)

	var out uint32
	err = ser.Unmarshal(append(data, 0x00), &out)
	s.ErrorIs(err, merr.ErrDeserializeFailed)
}

func (s *BinarySuite) TestShortReadIsHardError() {
	ser := NewBinary(DefaultConfig())
	in := sampleMessage()
	data, err := ser.Marshal(in)
	s.NoError(err)

	// 截断的输入不可能与完整报文区分，必须直接报反序列化失败。
	var out testMessage
	err = ser.Unmarshal(data[:len(data)/2], &out)
	s.ErrorIs(err, merr.ErrDeserializeFailed)
}

func (s *BinarySuite) TestSizeLimit() {
	ser := NewBinary(Config{SizeLimit: 16})

	_, err := ser.Marshal(sampleMessage())
	s.ErrorIs(err, merr.ErrSizeLimitExceeded)

	_, err = ser.MarshalSize(sampleMessage())
	s.ErrorIs(err, merr.ErrSizeLimitExceeded)

	// 解码侧对声明长度同样生效：构造一个 1KB 字符串的合法编码再用带限制的实例解。
	data, err := NewBinary(DefaultConfig()).Marshal(string(bytes.Repeat([]byte("x"), 1024)))
	s.NoError(err)
	var out string
	s.ErrorIs(ser.Unmarshal(data, &out), merr.ErrDeserializeFailed)
}

func (s *BinarySuite) TestUnsupportedType() {
	ser := NewBinary(DefaultConfig())
	_, err := ser.Marshal(make(chan int))
	s.ErrorIs(err, merr.ErrSerializeFailed)
}

func (s *BinarySuite) TestNilPointerTarget() {
	ser := NewBinary(DefaultConfig())
	var out *testMessage
	s.ErrorIs(ser.Unmarshal([]byte{0x01}, out), merr.ErrParameterInvalid)
}

func (s *BinarySuite) TestNilAndEmptyCollections() {
	ser := NewBinary(DefaultConfig())
	type wrap struct {
		P *uint32
		S []byte
	}

	data, err := ser.Marshal(wrap{})
	s.NoError(err)

	var out wrap
	s.NoError(ser.Unmarshal(data, &out))
	s.Nil(out.P)
	s.Nil(out.S)
}

func TestBinarySerializer(t *testing.T) {
	suite.Run(t, new(BinarySuite))
}

package framed

import (
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/streamframe-go/internal/network/codec"
	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// mockKind 模拟一个两变体、零载荷的枚举消息。
type mockKind uint8

const (
	mockOne mockKind = iota + 1
	mockTwo
)

type echoMsg struct {
	Kind uint8
	Body []byte
}

// duplex 将独立的读端与写端拼成一个 io.ReadWriter。
type duplex struct {
	io.Reader
	io.Writer
}

type StreamSuite struct {
	suite.Suite
}

func (s *StreamSuite) TestRecvSequenceThenEOF() {
	// 写端把两条消息攒进同一个缓冲区，读端依次取出后应得到干净的 io.EOF。
	var wire bytes.Buffer
	w := New(duplex{Reader: bytes.NewReader(nil), Writer: &wire}, codec.New[mockKind]())
	s.NoError(w.Send(mockOne))
	s.NoError(w.Send(mockTwo))

	r := New(duplex{Reader: &wire, Writer: io.Discard}, codec.New[mockKind]())

	got, err := r.Recv()
	s.NoError(err)
	s.Equal(mockOne, got)

	got, err = r.Recv()
	s.NoError(err)
	s.Equal(mockTwo, got)

	_, err = r.Recv()
	s.ErrorIs(err, io.EOF)
}

func (s *StreamSuite) TestEncodeBatchSingleFlush() {
	var wire bytes.Buffer
	w := New(duplex{Reader: bytes.NewReader(nil), Writer: &wire}, codec.NewLengthPrefixed[echoMsg]())

	s.NoError(w.Encode(echoMsg{Kind: 1, Body: []byte("a")}))
	s.NoError(w.Encode(echoMsg{Kind: 2, Body: []byte("b")}))
	// Encode 不触发底层写，Flush 之前线路上不应有字节。
	s.Zero(wire.Len())
	s.NoError(w.Flush())

	r := New(duplex{Reader: &wire, Writer: io.Discard}, codec.NewLengthPrefixed[echoMsg]())
	first, err := r.Recv()
	s.NoError(err)
	s.Equal(uint8(1), first.Kind)
	second, err := r.Recv()
	s.NoError(err)
	s.Equal(uint8(2), second.Kind)
}

func (s *StreamSuite) TestResidualBytesOnTruncatedStream() {
	var wire bytes.Buffer
	w := New(duplex{Reader: bytes.NewReader(nil), Writer: &wire}, codec.NewLengthPrefixed[echoMsg]())
	s.NoError(w.Send(echoMsg{Kind: 9, Body: []byte("truncated-in-flight")}))

	// 对端在载荷中间断开：帧凑不齐且不会再有数据。
	truncated := wire.Bytes()[:wire.Len()-3]
	r := New(duplex{Reader: bytes.NewReader(truncated), Writer: io.Discard}, codec.NewLengthPrefixed[echoMsg]())

	_, err := r.Recv()
	s.ErrorIs(err, merr.ErrStreamResidualBytes)
}

func (s *StreamSuite) TestDecodeErrorPropagates() {
	// 游标式分帧 + 被截断的输入：短读必须表现为反序列化硬错误。
	var wire bytes.Buffer
	w := New(duplex{Reader: bytes.NewReader(nil), Writer: &wire}, codec.New[echoMsg]())
	s.NoError(w.Send(echoMsg{Kind: 3, Body: bytes.Repeat([]byte("p"), 64)}))

	truncated := wire.Bytes()[:wire.Len()/2]
	r := New(duplex{Reader: bytes.NewReader(truncated), Writer: io.Discard}, codec.New[echoMsg]())

	_, err := r.Recv()
	s.ErrorIs(err, merr.ErrDeserializeFailed)
}

func (s *StreamSuite) TestEchoOverPipe() {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv := New(serverConn, codec.New[mockKind]())
		for {
			m, err := srv.Recv()
			if err != nil {
				return
			}
			if err := srv.Send(m); err != nil {
				return
			}
		}
	}()

	cli := New(clientConn, codec.New[mockKind]())

	s.NoError(cli.Send(mockOne))
	got, err := cli.Recv()
	s.NoError(err)
	s.Equal(mockOne, got)

	s.NoError(cli.Send(mockTwo))
	got, err = cli.Recv()
	s.NoError(err)
	s.Equal(mockTwo, got)

	s.NoError(clientConn.Close())
	<-done
}

func (s *StreamSuite) TestBigDataOverPipe() {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv := New(serverConn, codec.NewLengthPrefixed[echoMsg]())
		for {
			m, err := srv.Recv()
			if err != nil {
				return
			}
			if err := srv.Send(m); err != nil {
				return
			}
		}
	}()

	payload := make([]byte, 1_000_000)
	for i := range payload {
		payload[i] = byte(i)
	}

	// net.Pipe 无内部缓冲，1MB 载荷必然被拆成多次读写往返。
	cli := New(clientConn, codec.NewLengthPrefixed[echoMsg]())
	s.NoError(cli.Send(echoMsg{Kind: 1, Body: payload}))

	got, err := cli.Recv()
	s.NoError(err)
	s.Equal(uint8(1), got.Kind)
	s.Equal(payload, got.Body)

	s.NoError(cli.Send(echoMsg{Kind: 2}))
	got, err = cli.Recv()
	s.NoError(err)
	s.Equal(uint8(2), got.Kind)

	s.NoError(clientConn.Close())
	<-done
}

func TestStream(t *testing.T) {
	suite.Run(t, new(StreamSuite))
}

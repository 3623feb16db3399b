// Package framed 把 Codec 挂接到具体的字节流传输上，
// 扮演“异步分帧运行时”的角色：持有收发缓冲区、驱动读写循环，
// 在数据到达或需要外发时调用 Codec 的 Decode/Encode。
//
// Codec 本身是纯同步变换逻辑；本包补上缓冲区归属与流驱动，
// 使 net.Conn 等任意 io.ReadWriter 可以按“离散消息”收发。
package framed

import (
	"io"

	"go.uber.org/zap"

	network "github.com/lk2023060901/streamframe-go/internal/network"
	"github.com/lk2023060901/streamframe-go/internal/network/codec"
	"github.com/lk2023060901/streamframe-go/pkg/buffer/bytesbuf"
	"github.com/lk2023060901/streamframe-go/pkg/log"
	"github.com/lk2023060901/streamframe-go/pkg/metrics"
	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// Options 描述 Stream 的可选参数。
type Options struct {
	// ReadBufferSize 为接收缓冲区的初始容量，<=0 时由缓冲区按需增长。
	ReadBufferSize int

	// Logger 为本条流使用的日志器，nil 时使用全局日志器。
	Logger *zap.Logger
}

// Stream 将一条字节流包装为离散消息流。
//
// 一个 Stream 对应一条连接的收发两个方向；内部不加锁，
// Send/Flush 与 Recv 可以分属两个 goroutine，但各自不可并发调用。
type Stream[T any] struct {
	rw io.ReadWriter
	c  *codec.Codec[T]

	in  *bytesbuf.Buffer
	out *bytesbuf.Buffer

	logger  *zap.Logger
	framing string

	// eof 表示底层读方向已经结束，缓冲区中剩余字节不会再增长。
	eof bool
}

// New 基于默认参数创建 Stream。
func New[T any](rw io.ReadWriter, c *codec.Codec[T]) *Stream[T] {
	return WithOptions(rw, c, Options{})
}

// WithOptions 基于给定参数创建 Stream。
func WithOptions[T any](rw io.ReadWriter, c *codec.Codec[T], opts Options) *Stream[T] {
	logger := opts.Logger
	if logger == nil {
		logger = log.L()
	}
	return &Stream[T]{
		rw:      rw,
		c:       c,
		in:      bytesbuf.New(opts.ReadBufferSize),
		out:     bytesbuf.New(0),
		logger:  logger,
		framing: c.Framing().String(),
	}
}

// Recv 阻塞直到解出一条消息或流终止。
//
// 返回值约定：
//   - 流在消息边界上正常结束时返回 io.EOF；
//   - 流结束但缓冲区中还有解不出来的残留字节时返回 ErrStreamResidualBytes；
//   - 任何编解码错误原样向上传播，调用方应终止当前流，
//     两种分帧策略下都不存在可靠的重新同步手段。
func (s *Stream[T]) Recv() (T, error) {
	var zero T
	for {
		before := s.in.Len()
		msg, ok, err := s.c.Decode(s.in)
		if err != nil {
			metrics.FrameErrors.WithLabelValues(s.framing, "decode").Inc()
			s.logger.Warn("decode failed, terminating stream",
				zap.String("stage", string(network.StageDecode)),
				zap.String("framing", s.framing),
				zap.Int("buffered", s.in.Len()),
				zap.Error(err))
			return zero, err
		}
		if ok {
			metrics.FramesTotal.WithLabelValues(s.framing, "decode").Inc()
			metrics.FrameBytes.WithLabelValues(s.framing, "decode").Observe(float64(before - s.in.Len()))
			return msg, nil
		}

		if s.eof {
			if s.in.IsEmpty() {
				return zero, io.EOF
			}
			// 对端在消息中间关闭了连接。
			metrics.FrameErrors.WithLabelValues(s.framing, "decode").Inc()
			return zero, merr.WrapErrStreamResidualBytes(s.in.Len())
		}

		if _, err := s.in.ReadFrom(s.rw); err != nil {
			if err == io.EOF {
				s.eof = true
				continue
			}
			s.logger.Warn("read from transport failed",
				zap.String("stage", string(network.StageRecvRaw)),
				zap.Error(err))
			return zero, err
		}
	}
}

// Send 编码一条消息并立即刷出到底层传输。
func (s *Stream[T]) Send(item T) error {
	if err := s.Encode(item); err != nil {
		return err
	}
	return s.Flush()
}

// Encode 只把消息编码进发送缓冲区，不触发底层写。
// 调用方可借此把多条消息攒进一次 Flush。
func (s *Stream[T]) Encode(item T) error {
	before := s.out.Len()
	if err := s.c.Encode(item, s.out); err != nil {
		metrics.FrameErrors.WithLabelValues(s.framing, "encode").Inc()
		s.logger.Warn("encode failed",
			zap.String("stage", string(network.StageEncode)),
			zap.String("framing", s.framing),
			zap.Error(err))
		return err
	}
	metrics.FramesTotal.WithLabelValues(s.framing, "encode").Inc()
	metrics.FrameBytes.WithLabelValues(s.framing, "encode").Observe(float64(s.out.Len() - before))
	return nil
}

// Flush 将发送缓冲区的全部内容写入底层传输。
func (s *Stream[T]) Flush() error {
	for !s.out.IsEmpty() {
		n, err := s.rw.Write(s.out.Bytes())
		if n > 0 {
			_ = s.out.Advance(n)
		}
		if err != nil {
			s.logger.Warn("flush to transport failed",
				zap.String("stage", string(network.StageFlush)),
				zap.Int("unflushed", s.out.Len()),
				zap.Error(err))
			return err
		}
	}
	return nil
}

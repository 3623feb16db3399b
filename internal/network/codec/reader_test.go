package codec

import (
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ReaderSuite struct {
	suite.Suite
}

func (s *ReaderSuite) TestReadAll() {
	r := newConsumingReader([]byte("abcdef"))

	p := make([]byte, 4)
	n, err := r.Read(p)
	s.NoError(err)
	s.Equal(4, n)
	s.Equal([]byte("abcd"), p)
	s.Equal(4, r.Amount())

	// 请求量超过剩余量时，只拷贝可用部分。
	n, err = r.Read(p)
	s.NoError(err)
	s.Equal(2, n)
	s.Equal([]byte("ef"), p[:n])
	s.Equal(6, r.Amount())
}

func (s *ReaderSuite) TestEOFNeverBlocks() {
	r := newConsumingReader([]byte("x"))
	p := make([]byte, 8)

	n, err := r.Read(p)
	s.NoError(err)
	s.Equal(1, n)

	// 切片读尽后返回 io.EOF，而不是等待更多数据。
	n, err = r.Read(p)
	s.ErrorIs(err, io.EOF)
	s.Zero(n)
	s.Equal(1, r.Amount())
}

func (s *ReaderSuite) TestAmountNeverExceedsInput() {
	data := []byte("0123456789")
	r := newConsumingReader(data)
	p := make([]byte, 3)
	for {
		if _, err := r.Read(p); err == io.EOF {
			break
		}
	}
	s.Equal(len(data), r.Amount())
}

func (s *ReaderSuite) TestEmptyInput() {
	r := newConsumingReader(nil)
	n, err := r.Read(make([]byte, 1))
	s.ErrorIs(err, io.EOF)
	s.Zero(n)
	s.Zero(r.Amount())
}

func TestConsumingReader(t *testing.T) {
	suite.Run(t, new(ReaderSuite))
}

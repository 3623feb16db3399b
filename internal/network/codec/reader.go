package codec

import "io"

// consumingReader 是游标式分帧解码专用的字节切片读取游标。
//
// 每次 Read 从剩余切片中拷贝尽可能多的字节（不超过调用方请求量），
// 并把拷贝量累加到 amount；读到切片末尾返回 io.EOF，绝不阻塞等待。
// 生命周期只覆盖一次 Decode 调用。
//
// 不变量：amount 不会超过构造时切片的长度，
// 即记录的消费量永远不大于缓冲区中实际存在的字节数。
type consumingReader struct {
	buf    []byte
	amount int
}

var _ io.Reader = (*consumingReader)(nil)

func newConsumingReader(buf []byte) *consumingReader {
	return &consumingReader{buf: buf}
}

func (r *consumingReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	r.amount += n
	return n, nil
}

// Amount 返回通过该游标累计读出的字节数，
// 即反序列化器实际消费、缓冲区应当前进的量。
func (r *consumingReader) Amount() int {
	return r.amount
}

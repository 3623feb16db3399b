// Package bytesbuf 实现了一个面向流式编解码的线性字节缓冲区。
//
// 与 bytes.Buffer 的区别：
//   - 读取侧只提供“视图 + 显式前进”两个原语（Bytes / Advance），
//     由调用方决定消费多少字节，便于编解码器精确控制帧边界；
//   - 前进只移动读偏移，不立即搬移数据，搬移被推迟到写入需要扩容时。
package bytesbuf

import (
	"io"

	"github.com/cockroachdb/errors"
)

// MinRead 表示 ReadFrom 每次尝试从 Reader 读取的最小字节数。
const MinRead = 512

// Buffer 是一个可增长的字节缓冲区，支持廉价的“丢弃前 N 字节”操作。
//
// 内部布局：buf[off:] 为当前可读数据；buf[:off] 为已消费区域，
// 会在下一次扩容或 Reset 时被回收。
type Buffer struct {
	buf []byte
	off int
}

// New 创建一个预留 size 字节容量的 Buffer。size 为 0 时不做任何分配。
func New(size int) *Buffer {
	if size <= 0 {
		return &Buffer{}
	}
	return &Buffer{buf: make([]byte, 0, size)}
}

// From 基于已有数据创建 Buffer，直接持有 data，不做拷贝。
func From(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// Len 返回当前可读数据的字节数。
func (b *Buffer) Len() int {
	return len(b.buf) - b.off
}

// IsEmpty 返回缓冲区是否没有可读数据。
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Bytes 返回当前可读数据的视图（偏移 0 对应下一个未消费字节）。
//
// 注意：返回的切片与内部存储共享内存，任何 Write/Advance 之后不应继续持有。
func (b *Buffer) Bytes() []byte {
	return b.buf[b.off:]
}

// Advance 丢弃前 n 个可读字节。
// n 超过可读数据长度时返回错误且缓冲区保持不变。
func (b *Buffer) Advance(n int) error {
	if n < 0 || n > b.Len() {
		return errors.Newf("bytesbuf: advance %d out of range [0, %d]", n, b.Len())
	}
	b.off += n
	if b.off == len(b.buf) {
		// 数据全部消费完毕，读写偏移一起归零，复用底层容量。
		b.buf = b.buf[:0]
		b.off = 0
	}
	return nil
}

// Reserve 确保缓冲区还能容纳至少 n 字节的追加写入而不再次分配。
func (b *Buffer) Reserve(n int) {
	if n <= 0 {
		return
	}
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	// 先尝试回收已消费区域，足够时只搬移不分配。
	if b.off > 0 && cap(b.buf)-b.Len() >= n {
		m := copy(b.buf[:cap(b.buf)], b.buf[b.off:])
		b.buf = b.buf[:m]
		b.off = 0
		return
	}
	next := make([]byte, b.Len(), growCap(cap(b.buf), b.Len()+n))
	copy(next, b.buf[b.off:])
	b.buf = next
	b.off = 0
}

// Write 实现 io.Writer 接口，将 p 追加到缓冲区尾部。
// 总是返回 n == len(p) 且 err == nil。
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.Reserve(len(p))
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte 向缓冲区尾部追加单个字节。
func (b *Buffer) WriteByte(c byte) error {
	b.Reserve(1)
	b.buf = append(b.buf, c)
	return nil
}

// ReadFrom 实现 io.ReaderFrom 接口，从 r 读取一次数据并追加到缓冲区。
//
// 与 bytes.Buffer.ReadFrom 不同，这里只做单次 Read：
// 驱动层的收包循环需要“每到达一批字节就尝试解码一次”的节奏。
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	b.Reserve(MinRead)
	spare := b.buf[len(b.buf):cap(b.buf)]
	n, err := r.Read(spare)
	if n < 0 {
		panic("bytesbuf: reader returned negative count from Read")
	}
	b.buf = b.buf[:len(b.buf)+n]
	return int64(n), err
}

// Reset 清空缓冲区并回收读偏移，保留底层容量。
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// growCap 计算扩容后的目标容量，沿用 append 的倍增策略并保证不小于 need。
func growCap(cur, need int) int {
	next := cur * 2
	if next < need {
		next = need
	}
	if next < MinRead {
		next = MinRead
	}
	return next
}

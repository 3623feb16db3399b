// Package json 对 bytedance/sonic 做了薄封装，
// 使项目内部统一通过本包访问 JSON 编解码能力。
package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// api 使用与标准库行为对齐的配置，保证键排序与转义语义稳定。
var api = sonic.ConfigStd

// Marshal 将 v 编码为 JSON 字节序列。
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal 将 JSON 字节序列解码到 v 中。
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// NewEncoder 创建一个写入 w 的 JSON 编码器。
func NewEncoder(w io.Writer) sonic.Encoder {
	return api.NewEncoder(w)
}

// NewDecoder 创建一个从 r 读取的 JSON 解码器。
func NewDecoder(r io.Reader) sonic.Decoder {
	return api.NewDecoder(r)
}

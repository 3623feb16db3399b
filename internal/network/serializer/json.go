package serializer

import (
	"github.com/lk2023060901/streamframe-go/internal/json"
	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// JSONSerializer 使用 internal/json（基于 bytedance/sonic）实现 JSON 编解码。
//
// JSON 无法在不预读的前提下从流中自定界，因此只实现 Serializer，
// 仅可用于长度前缀分帧策略。
type JSONSerializer struct{}

// 编译期断言：确保 JSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*JSONSerializer)(nil)

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, merr.WrapErrSerializeFailed(typeName(v), err)
	}
	return data, nil
}

func (JSONSerializer) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return merr.WrapErrDeserializeFailed(typeName(v), err)
	}
	return nil
}

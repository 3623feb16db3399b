package serializer

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

// ProtoSerializer 使用 Protobuf 进行二进制序列化。
//
// 注意：传入/传出的对象必须实现 proto.Message。
// Protobuf 报文不自带结束标记，因此只实现 Serializer，
// 仅可用于长度前缀分帧策略。
type ProtoSerializer struct{}

// 编译期断言：确保 ProtoSerializer 实现了 Serializer 接口。
var _ Serializer = (*ProtoSerializer)(nil)

func (ProtoSerializer) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, merr.WrapErrTypeUnsupported(fmt.Sprintf("%T", v), "ProtoSerializer requires proto.Message")
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, merr.WrapErrSerializeFailed(typeName(v), err)
	}
	return data, nil
}

func (ProtoSerializer) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return merr.WrapErrTypeUnsupported(fmt.Sprintf("%T", v), "ProtoSerializer requires proto.Message")
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return merr.WrapErrDeserializeFailed(typeName(v), err)
	}
	return nil
}

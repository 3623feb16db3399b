package codec

import "fmt"

// typeNameOf 返回用于错误信息的对象类型名。
func typeNameOf(v any) string {
	return fmt.Sprintf("%T", v)
}

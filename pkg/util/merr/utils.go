// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case wireError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

func IsRetryableErr(err error) bool {
	if err, ok := err.(wireError); ok {
		return err.retriable
	}

	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

// wrapFieldsErr 按统一格式为叶子错误追加上下文信息。
func wrapFieldsErr(leaf wireError, cause error, format string, args ...any) error {
	err := error(leaf)
	if cause != nil {
		err = errors.Wrap(leaf, cause.Error())
	}
	if format != "" {
		err = errors.Wrapf(err, format, args...)
	}
	return err
}

// Serialize 相关。

// WrapErrSerializeFailed 包装“序列化失败”：typeName 为被序列化对象的 Go 类型名。
func WrapErrSerializeFailed(typeName string, cause error) error {
	return wrapFieldsErr(ErrSerializeFailed, cause, "type=%s", typeName)
}

// WrapErrDeserializeFailed 包装“反序列化失败”。
//
// 注意：游标式分帧下，报文尚未完整到达导致的短读同样会落入该错误，
// 调用方无法在此层区分“数据损坏”与“数据未到齐”。
func WrapErrDeserializeFailed(typeName string, cause error) error {
	return wrapFieldsErr(ErrDeserializeFailed, cause, "type=%s", typeName)
}

func WrapErrTypeUnsupported(kind string, msg ...string) error {
	return wrapFieldsErr(ErrTypeUnsupported, nil, "kind=%s%s", kind, joinMsg(msg))
}

func WrapErrSizeLimitExceeded(size, limit uint64) error {
	return wrapFieldsErr(ErrSizeLimitExceeded, nil, "size=%d, limit=%d", size, limit)
}

// Frame 相关。

func WrapErrFrameTooLarge(size, limit uint64) error {
	return wrapFieldsErr(ErrFrameTooLarge, nil, "frame=%d, max=%d", size, limit)
}

func WrapErrFrameCorrupt(msg string, args ...any) error {
	return wrapFieldsErr(ErrFrameCorrupt, nil, msg, args...)
}

// Stream 相关。

func WrapErrStreamResidualBytes(n int) error {
	return wrapFieldsErr(ErrStreamResidualBytes, nil, "residual=%d", n)
}

// 参数相关。

func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	return wrapFieldsErr(ErrParameterInvalid, nil, "expected=%v, actual=%v%s", expected, actual, joinMsg(msg))
}

func WrapErrParameterMissing(name string, msg ...string) error {
	return wrapFieldsErr(ErrParameterMissing, nil, "missing=%s%s", name, joinMsg(msg))
}

func joinMsg(msg []string) string {
	out := ""
	for _, m := range msg {
		out += ": " + m
	}
	return out
}

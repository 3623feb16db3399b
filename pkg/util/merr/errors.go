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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// 序列化相关错误。
	ErrSerializeFailed   = newWireError("serialize failed", 100, false)
	ErrDeserializeFailed = newWireError("deserialize failed", 101, false)
	ErrTypeUnsupported   = newWireError("type not supported by serializer", 102, false)
	ErrSizeLimitExceeded = newWireError("serialized size exceeds configured limit", 103, false)

	// 帧相关错误（仅长度前缀分帧策略）。
	ErrFrameTooLarge = newWireError("frame exceeds max frame size", 200, false)
	ErrFrameCorrupt  = newWireError("frame prefix corrupt", 201, false)

	// 流相关错误。
	ErrStreamResidualBytes = newWireError("stream closed with undecoded residual bytes", 300, false)
	ErrStreamClosed        = newWireError("stream already closed", 301, false)

	// 参数相关错误。
	ErrParameterInvalid = newWireError("invalid parameter", 1100, false)
	ErrParameterMissing = newWireError("missing parameter", 1101, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to wireError
	errUnexpected = newWireError("unexpected error", (1<<16)-1, false)
)

type wireError struct {
	msg       string
	retriable bool
	errCode   int32
}

func newWireError(msg string, code int32, retriable bool) wireError {
	return wireError{
		msg:       msg,
		retriable: retriable,
		errCode:   code,
	}
}

func (e wireError) code() int32 {
	return e.errCode
}

func (e wireError) Error() string {
	return e.msg
}

func (e wireError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(wireError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}

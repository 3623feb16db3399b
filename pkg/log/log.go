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

// Package log 基于 zap 提供进程级全局日志器。
package log

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _globalL atomic.Pointer[zap.Logger]

func init() {
	l, err := InitLogger(DefaultConfig())
	if err != nil {
		panic(err)
	}
	ReplaceGlobals(l)
}

// InitLogger 根据配置构造一个 zap.Logger。
//
// 说明：不会替换全局日志器，需要时由调用方显式调用 ReplaceGlobals。
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	var syncers []zapcore.WriteSyncer
	if cfg.Stdout {
		stdout, _, err := zap.Open("stdout")
		if err != nil {
			return nil, err
		}
		syncers = append(syncers, stdout)
	}
	if cfg.File.Filename != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Filename,
			MaxSize:    cfg.File.MaxSize,
			MaxAge:     cfg.File.MaxDays,
			MaxBackups: cfg.File.MaxBackups,
		}))
	}
	if len(syncers) == 0 {
		syncers = append(syncers, zapcore.AddSync(nopWriter{}))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zap.CombineWriteSyncers(syncers...),
		level,
	)

	opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	return zap.New(core, opts...), nil
}

// ReplaceGlobals 替换全局日志器。
func ReplaceGlobals(l *zap.Logger) {
	_globalL.Store(l)
}

// L 返回当前全局日志器。
func L() *zap.Logger {
	return _globalL.Load()
}

// With 基于全局日志器派生一个携带固定字段的日志器。
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...).WithOptions(zap.AddCallerSkip(-1))
}

func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

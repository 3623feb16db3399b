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

package log

// FileLogConfig 描述文件日志输出的配置。
type FileLogConfig struct {
	// Filename 为日志文件路径，为空时不启用文件输出。
	Filename string `json:"filename"`
	// MaxSize 为单个日志文件的最大体积，单位 MB。
	MaxSize int `json:"max_size"`
	// MaxDays 为日志文件的最长保留天数，0 表示不清理。
	MaxDays int `json:"max_days"`
	// MaxBackups 为保留的历史日志文件个数，0 表示不限制。
	MaxBackups int `json:"max_backups"`
}

// Config 描述日志初始化参数。
type Config struct {
	// Level 为最低输出级别：debug/info/warn/error。
	Level string `json:"level"`
	// Stdout 控制是否输出到标准输出。
	Stdout bool `json:"stdout"`
	// File 为可选的文件输出配置。
	File FileLogConfig `json:"file"`
}

// DefaultConfig 返回默认日志配置：info 级别，仅输出到标准输出。
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Stdout: true,
	}
}

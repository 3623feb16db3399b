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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// wireNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	wireNamespace = "streamframe"

	// 以下为当前使用的通用标签名。
	framingLabelName   = "framing"   // raw / length_prefixed
	directionLabelName = "direction" // encode / decode
)

var (
	// sizeBuckets 为单帧大小的桶划分，单位为字节。
	sizeBuckets = prometheus.ExponentialBuckets(64, 4, 12)

	FramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: wireNamespace,
			Name:      "frames_total",
			Help:      "number of frames encoded or decoded",
		}, []string{framingLabelName, directionLabelName})

	FrameErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: wireNamespace,
			Name:      "frame_errors_total",
			Help:      "number of encode/decode errors, each of which is stream-fatal",
		}, []string{framingLabelName, directionLabelName})

	FrameBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: wireNamespace,
			Name:      "frame_bytes",
			Help:      "distribution of wire bytes per frame",
			Buckets:   sizeBuckets,
		}, []string{framingLabelName, directionLabelName})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 通常应在 init 函数中调用。
func Register(r prometheus.Registerer) {
	r.MustRegister(FramesTotal)
	r.MustRegister(FrameErrors)
	r.MustRegister(FrameBytes)
	metricRegisterer = r
}

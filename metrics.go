// Copyright 2026 The Sketchviz Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errorpage

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// metricsRecorder tracks rendering outcomes. A nil recorder is valid
// and records nothing, so the handler never branches on whether metrics
// were requested.
type metricsRecorder struct {
	renders       *prom.CounterVec
	declines      *prom.CounterVec
	imageFailures prom.Counter
}

// newMetricsRecorder constructs and registers the rendering metrics.
func newMetricsRecorder(reg prom.Registerer) *metricsRecorder {
	m := &metricsRecorder{
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "errorpage",
			Name:      "renders_total",
			Help:      "Error responses rendered, by format",
		}, []string{"format"}),
		declines: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "errorpage",
			Name:      "render_declines_total",
			Help:      "Format strategies that declined during negotiation, by format",
		}, []string{"format"}),
		imageFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "errorpage",
			Name:      "image_failures_total",
			Help:      "Error image generation or encoding failures",
		}),
	}
	reg.MustRegister(m.renders, m.declines, m.imageFailures)
	return m
}

func (m *metricsRecorder) incRender(format string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(format).Inc()
}

func (m *metricsRecorder) incDecline(format string) {
	if m == nil {
		return
	}
	m.declines.WithLabelValues(format).Inc()
}

func (m *metricsRecorder) incImageFailure() {
	if m == nil {
		return
	}
	m.imageFailures.Inc()
}

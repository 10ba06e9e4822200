/*
 * MIT License
 *
 * Copyright (c) 2026 The Instaworks Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package health

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the gauges/counter the health loop updates each scan. They
// are exposed at the web surface's /metrics route.
type Metrics struct {
	Threads   prometheus.Gauge
	Mutexes   prometheus.Gauge
	Deadlocks prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		Threads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "instaworks",
			Subsystem: "health",
			Name:      "threads_registered",
			Help:      "Number of threads currently registered.",
		}),
		Mutexes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "instaworks",
			Subsystem: "health",
			Name:      "mutexes_registered",
			Help:      "Number of mutexes currently registered.",
		}),
		Deadlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "instaworks",
			Subsystem: "health",
			Name:      "deadlocks_detected_total",
			Help:      "Number of deadlock cycles detected by the health loop.",
		}),
	}
}

// MustRegister registers every collector with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Threads, m.Mutexes, m.Deadlocks)
}

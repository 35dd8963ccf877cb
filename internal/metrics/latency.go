// Package metrics summarises the latency of repeated requests.
package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	histogramMin     = 1                 // 1µs
	histogramMax     = 10 * 60 * 1000000 // 10 minutes in µs
	histogramSigFigs = 3
)

// Summary describes the recorded latencies
type Summary struct {
	Count  int64
	Errors int64
	Min    time.Duration
	Mean   time.Duration
	P50    time.Duration
	P90    time.Duration
	P99    time.Duration
	Max    time.Duration
}

// Recorder collects request latencies in an HDR histogram. It is not safe
// for concurrent use; requests are sent one after another.
type Recorder struct {
	hist   *hdrhistogram.Histogram
	errors int64
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record adds the latency of a successful request
func (r *Recorder) Record(d time.Duration) {
	micros := d.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	r.hist.RecordValue(micros)
}

// RecordError counts a failed request
func (r *Recorder) RecordError() {
	r.errors++
}

// Summary returns the current statistics
func (r *Recorder) Summary() Summary {
	s := Summary{
		Count:  r.hist.TotalCount(),
		Errors: r.errors,
	}
	if s.Count == 0 {
		return s
	}

	s.Min = micros(r.hist.Min())
	s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.hist.ValueAtQuantile(50))
	s.P90 = micros(r.hist.ValueAtQuantile(90))
	s.P99 = micros(r.hist.ValueAtQuantile(99))
	s.Max = micros(r.hist.Max())
	return s
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

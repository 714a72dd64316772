package mig

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Loggable is implemented by anything that contributes columns to a
// tab-separated trace file.
type Loggable interface {
	// TraceColumns returns the fixed column headers, in emission order.
	TraceColumns() []string
	// TraceValues returns the current values, aligned with TraceColumns.
	TraceValues() []string
}

// TraceColumns returns the model's fixed reporting contract, in order:
// one popSize column per deme, one backward-rate column per ordered
// off-diagonal pair, one forward-rate column per ordered off-diagonal
// pair, and — only when an indicator mask is configured — one 0/1 flag
// column per ordered off-diagonal pair.
func (m *Model) TraceColumns() []string {
	cols := make([]string, 0, m.traceWidth())
	for i := 0; i < m.nDemes; i++ {
		cols = append(cols, fmt.Sprintf("%s.popSize_%d", m.name, i))
	}
	for _, kind := range []string{"rateMatrixBackward", "rateMatrixForward"} {
		for i := 0; i < m.nDemes; i++ {
			for j := 0; j < m.nDemes; j++ {
				if i == j {
					continue
				}
				cols = append(cols, fmt.Sprintf("%s.%s_%d_%d", m.name, kind, i, j))
			}
		}
	}
	if m.flags != nil {
		for i := 0; i < m.nDemes; i++ {
			for j := 0; j < m.nDemes; j++ {
				if i == j {
					continue
				}
				cols = append(cols, fmt.Sprintf("%s.rateMatrixFlag_%d_%d", m.name, i, j))
			}
		}
	}
	return cols
}

// TraceValues reports the raw parameter state: population sizes, unmasked
// backward rates, detailed-balance forward rates
// forward(i,j) = backward(j,i)·popSize(j)/popSize(i), and indicator flags
// when configured. Disabled rates stay visible because the backward column
// uses RateRaw.
func (m *Model) TraceValues() []string {
	vals := make([]string, 0, m.traceWidth())
	for i := 0; i < m.nDemes; i++ {
		vals = append(vals, formatTraceValue(m.popSizes[i]))
	}
	for i := 0; i < m.nDemes; i++ {
		for j := 0; j < m.nDemes; j++ {
			if i == j {
				continue
			}
			vals = append(vals, formatTraceValue(m.RateRaw(i, j)))
		}
	}
	for i := 0; i < m.nDemes; i++ {
		for j := 0; j < m.nDemes; j++ {
			if i == j {
				continue
			}
			forward := m.RateRaw(j, i) * m.PopSize(j) / m.PopSize(i)
			vals = append(vals, formatTraceValue(forward))
		}
	}
	if m.flags != nil {
		for i := 0; i < m.nDemes; i++ {
			for j := 0; j < m.nDemes; j++ {
				if i == j {
					continue
				}
				if m.RateFlag(i, j) {
					vals = append(vals, "1")
				} else {
					vals = append(vals, "0")
				}
			}
		}
	}
	return vals
}

func (m *Model) traceWidth() int {
	width := m.nDemes + 2*m.nDemes*(m.nDemes-1)
	if m.flags != nil {
		width += m.nDemes * (m.nDemes - 1)
	}
	return width
}

func formatTraceValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// TraceWriter emits a tab-separated trace with a leading Sample column
// followed by the columns of each registered Loggable, in registration
// order.
type TraceWriter struct {
	w       io.Writer
	sources []Loggable
}

// NewTraceWriter creates a TraceWriter over the given sources.
func NewTraceWriter(w io.Writer, sources ...Loggable) *TraceWriter {
	return &TraceWriter{w: w, sources: sources}
}

// WriteHeader emits the header row.
func (tw *TraceWriter) WriteHeader() error {
	fields := []string{"Sample"}
	for _, src := range tw.sources {
		fields = append(fields, src.TraceColumns()...)
	}
	_, err := fmt.Fprintln(tw.w, strings.Join(fields, "\t"))
	return err
}

// WriteSample emits one value row for the given sample index.
func (tw *TraceWriter) WriteSample(sample int64) error {
	fields := []string{strconv.FormatInt(sample, 10)}
	for _, src := range tw.sources {
		fields = append(fields, src.TraceValues()...)
	}
	_, err := fmt.Fprintln(tw.w, strings.Join(fields, "\t"))
	return err
}

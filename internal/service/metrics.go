package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts upload outcomes.
type Metrics struct {
	uploads       *prometheus.CounterVec
	uploadedBytes prometheus.Counter
}

// NewMetrics registers the upload metrics on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uploads_total",
				Help: "Total number of upload attempts by result.",
			},
			[]string{"result"},
		),
		uploadedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "uploaded_bytes_total",
				Help: "Total number of bytes written by successful uploads.",
			},
		),
	}
	if err := reg.Register(m.uploads); err != nil {
		return nil, err
	}
	if err := reg.Register(m.uploadedBytes); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(result string, size int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	if result == resultOK && size > 0 {
		m.uploadedBytes.Add(float64(size))
	}
}

package gumble

import "github.com/prometheus/client_golang/prometheus"

// Metrics is optional Prometheus instrumentation for a Client, grounded on
// DMRHub's internal/metrics package. A nil *Metrics (the default) disables
// instrumentation entirely; every call site on this type is nil-safe.
type Metrics struct {
	MessagesDispatchedTotal *prometheus.CounterVec
	VoiceFramesLostTotal    prometheus.Counter
	VoiceFramesLateTotal    prometheus.Counter
	VoiceTransmissionsOpen  prometheus.Gauge
	DataRTTMillis           prometheus.Gauge
	PingsInFlight           prometheus.Gauge
}

// NewMetrics builds and registers a Metrics instance against reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to use the global one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesDispatchedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gumble_messages_dispatched_total",
			Help: "Control messages dispatched, by message type.",
		}, []string{"type"}),
		VoiceFramesLostTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gumble_voice_frames_lost_total",
			Help: "Lost-frame markers injected by the voice reassembly engine.",
		}),
		VoiceFramesLateTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gumble_voice_frames_late_total",
			Help: "Voice packets dropped for arriving late within a transmission.",
		}),
		VoiceTransmissionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gumble_voice_transmissions_open",
			Help: "Number of users with an active voice transmission.",
		}),
		DataRTTMillis: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gumble_data_rtt_milliseconds",
			Help: "Most recent data-channel ping RTT.",
		}),
		PingsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gumble_pings_in_flight",
			Help: "Outstanding pings not yet acknowledged by the server.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.MessagesDispatchedTotal,
			m.VoiceFramesLostTotal,
			m.VoiceFramesLateTotal,
			m.VoiceTransmissionsOpen,
			m.DataRTTMillis,
			m.PingsInFlight,
		)
	}
	return m
}

func (m *Metrics) dispatched(t MessageType) {
	if m == nil {
		return
	}
	m.MessagesDispatchedTotal.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) voiceFrameLost() {
	if m == nil {
		return
	}
	m.VoiceFramesLostTotal.Inc()
}

func (m *Metrics) voiceFrameLate() {
	if m == nil {
		return
	}
	m.VoiceFramesLateTotal.Inc()
}

func (m *Metrics) transmissionOpened() {
	if m == nil {
		return
	}
	m.VoiceTransmissionsOpen.Inc()
}

func (m *Metrics) transmissionClosed() {
	if m == nil {
		return
	}
	m.VoiceTransmissionsOpen.Dec()
}

func (m *Metrics) setDataRTT(ms float64) {
	if m == nil {
		return
	}
	m.DataRTTMillis.Set(ms)
}

func (m *Metrics) setPingsInFlight(n uint32) {
	if m == nil {
		return
	}
	m.PingsInFlight.Set(float64(n))
}

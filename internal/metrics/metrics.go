// Package metrics counts what happens during an update session and
// writes it in the Prometheus text format for node-exporter's textfile
// collector.
package metrics

import (
	"bytes"
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moffa90/go-nicefw/bootloader"
	"github.com/moffa90/go-nicefw/firmware"
	"github.com/moffa90/go-nicefw/protocol"
	"github.com/moffa90/go-nicefw/transport"
)

type MetricsConfig struct {
	Namespace string
}

func DefaultConfig() *MetricsConfig {
	return &MetricsConfig{
		Namespace: "nicefw",
	}
}

// Metrics implements transport.Observer.
type Metrics struct {
	reg *prometheus.Registry

	framesSent     *prometheus.CounterVec
	framesReceived prometheus.Counter
	bytesSent      prometheus.Counter
	records        prometheus.Counter
	failures       *prometheus.CounterVec
	state          prometheus.Gauge
}

func New(reg *prometheus.Registry, config *MetricsConfig) *Metrics {
	met := &Metrics{
		reg: reg,

		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace, Name: "frames_sent_total", Help: "Frames written to the line"}, []string{"command"}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace, Name: "frames_received_total", Help: "Frames read from the line, echoes included"}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace, Name: "bytes_sent_total", Help: "Bytes written to the line"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace, Name: "records_total", Help: "Firmware records sent"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace, Name: "failures_total", Help: "Failed runs by cause"}, []string{"kind"}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace, Name: "state", Help: "Current update state"}),
	}

	reg.MustRegister(met.framesSent, met.framesReceived, met.bytesSent, met.records, met.failures, met.state)

	return met
}

func (m *Metrics) FrameSent(frame []byte) {
	command := commandName(frame)
	m.framesSent.WithLabelValues(command).Inc()
	m.bytesSent.Add(float64(len(frame)))
	if command == "data" {
		m.records.Inc()
	}
}

func (m *Metrics) FrameReceived([]byte) {
	m.framesReceived.Inc()
}

// ObserveState is a bootloader.StateObserver.
func (m *Metrics) ObserveState(s bootloader.State) {
	m.state.Set(float64(s))
}

// Failure counts err under its failure kind.
func (m *Metrics) Failure(err error) {
	m.failures.WithLabelValues(FailureKind(err)).Inc()
}

// WriteTextfile writes every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func commandName(frame []byte) string {
	if bytes.Equal(frame, protocol.RebootToBootloaderFrame()) {
		return "reboot"
	}

	p, err := protocol.Parse(frame)
	if err != nil || len(p.Payload()) == 0 {
		return "other"
	}

	switch p.Payload()[0] {
	case protocol.CmdIdentify:
		return "identify"
	case protocol.CmdErase:
		return "erase"
	case protocol.CmdChecksum:
		return "checksum"
	case protocol.CmdData:
		if bytes.Equal(p.Payload(), protocol.BuildCommitCmd()) {
			return "commit"
		}
		return "data"
	}
	return "other"
}

// FailureKind maps an update error to a short label.
func FailureKind(err error) string {
	kinds := []struct {
		target error
		kind   string
	}{
		{bootloader.ErrIncompatibleHardware, "incompatible_hardware"},
		{bootloader.ErrChecksumMismatch, "checksum_mismatch"},
		{transport.ErrCorruptedEcho, "corrupted_echo"},
		{transport.ErrDeviceRejected, "rejected"},
		{transport.ErrReadTimeout, "timeout"},
		{protocol.ErrInvalidPacketHash, "hash"},
		{protocol.ErrUnexpectedPacketStart, "framing"},
		{protocol.ErrUnexpectedPacketType, "framing"},
		{protocol.ErrInvalidPacketLength, "framing"},
		{firmware.ErrInvalidFirmwareFile, "firmware"},
		{firmware.ErrInvalidFirmwareData, "firmware"},
		{context.Canceled, "cancelled"},
	}

	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "other"
}

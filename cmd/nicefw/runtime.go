package main

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/moffa90/go-nicefw/firmware"
	"github.com/moffa90/go-nicefw/internal/config"
	"github.com/moffa90/go-nicefw/internal/logging"
	"github.com/moffa90/go-nicefw/internal/metrics"
	"github.com/moffa90/go-nicefw/internal/simunit"
	"github.com/moffa90/go-nicefw/transport"
)

// runtime is what every command that talks to a unit needs.
type runtime struct {
	cfg *config.Config
	log logrus.FieldLogger
	met *metrics.Metrics
}

func newRuntime(component string) (*runtime, error) {
	cfg, err := config.Load(confPath)
	if err != nil {
		return nil, err
	}

	if debug {
		cfg.Log.Level = "debug"
	}
	if metricsFile != "" {
		cfg.Metrics.Textfile = metricsFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	log := logging.New(component, logging.Level(cfg.Log.Level)).
		WithField("session", uuid.NewString())

	return &runtime{
		cfg: cfg,
		log: log,
		met: metrics.New(prometheus.NewRegistry(), metrics.DefaultConfig()),
	}, nil
}

// open opens the serial port, or a simulated unit when --simulate is set.
// The simulated unit reports the container's checksum so a dry run of a
// real container can complete.
func (rt *runtime) open(port string, header *firmware.Header) (transport.Conn, error) {
	if simulate != "" {
		opts := []simunit.Option{
			simunit.WithHardware(simulate),
			simunit.WithLogger(rt.log.WithField("component", "simunit")),
		}
		if header != nil {
			opts = append(opts, simunit.WithChecksum(uint32(header.Checksum2)))
		}
		rt.log.WithField("hardware", simulate).Warn("using simulated control unit")
		return simunit.New(opts...), nil
	}

	conn, err := transport.OpenSerial(port, transport.SerialConfig{
		BaudRate:    rt.cfg.Serial.BaudRate,
		ReadTimeout: rt.cfg.Serial.ReadTimeout(),
	})
	if err != nil {
		return nil, err
	}

	rt.log.WithFields(logrus.Fields{
		"port": port,
		"baud": rt.cfg.Serial.BaudRate,
	}).Debug("serial port open")
	return conn, nil
}

func (rt *runtime) session(conn transport.Port) *transport.Session {
	return transport.New(conn,
		transport.WithBreakDuration(rt.cfg.Serial.Break()),
		transport.WithLogger(logging.NewAdapter(rt.log.WithField("component", "transport"))),
		transport.WithObserver(rt.met),
	)
}

// finish counts err and writes the metrics textfile if one is configured.
func (rt *runtime) finish(err error) error {
	if err != nil {
		rt.met.Failure(err)
	}

	if rt.cfg.Metrics.Textfile != "" {
		if werr := rt.met.WriteTextfile(rt.cfg.Metrics.Textfile); werr != nil {
			rt.log.WithError(werr).Error("unable to write metrics textfile")
		}
	}

	return err
}

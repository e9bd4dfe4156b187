package helpers

import (
	"time"

	"github.com/hashicorp/go-metrics"
)

// InitMetrics installs an in-memory global sink. Sending SIGUSR1 to a long
// running batch dumps the collected counters to stderr.
func InitMetrics() (*metrics.InmemSink, error) {
	sink := metrics.NewInmemSink(10*time.Second, time.Minute)
	metrics.DefaultInmemSignal(sink)

	conf := metrics.DefaultConfig("lcadmin")
	conf.EnableHostname = false
	conf.EnableRuntimeMetrics = false

	if _, err := metrics.NewGlobal(conf, sink); err != nil {
		return nil, err
	}
	return sink, nil
}

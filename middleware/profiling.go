package middleware

import (
	"github.com/grafana/pyroscope-go"

	"github.com/rsjournalism/student-portal/config"
)

var profiler *pyroscope.Profiler

// InitProfiling starts Pyroscope continuous profiling using the
// profiling config.
func InitProfiling(cfg *config.ProfilingConfig) error {
	name := cfg.ServiceName
	if name == "" {
		name = "student-portal"
	}

	pyroCfg := pyroscope.Config{
		ApplicationName: name,
		ServerAddress:   cfg.Endpoint,
		Tags: map[string]string{
			"service": name,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Logger: pyroscope.StandardLogger,
	}

	var err error
	profiler, err = pyroscope.Start(pyroCfg)
	return err
}

// StopProfiling stops Pyroscope profiling
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
	}
}

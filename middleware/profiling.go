package middleware

import (
	"github.com/duynhne/profile-editor/config"
	"github.com/grafana/pyroscope-go"
)

var profiler *pyroscope.Profiler

// InitProfiling starts Pyroscope with CPU, allocation and goroutine profiles
func InitProfiling(cfg *config.Config) error {
	serviceName := cfg.Profiling.ServiceName
	if serviceName == "" {
		serviceName = cfg.Service.Name
	}

	var err error
	profiler, err = pyroscope.Start(pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   cfg.Profiling.Endpoint,
		Tags: map[string]string{
			"service": serviceName,
			"env":     cfg.Service.Env,
			"store":   cfg.Store.Backend,
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
	})
	return err
}

// StopProfiling stops Pyroscope profiling
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
	}
}

// Package config holds the process configuration, resolved once at startup
// from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// exitSpecBaseDir anchors relative exit spec paths.
	exitSpecBaseDir = "/etc/framework-job-scheduler"
	// exitSpecDefaultFile is used when no override is given.
	exitSpecDefaultFile = "job-exit-spec.yaml"
)

// Config instance variables
type Config struct {
	// Port the API is served on.
	Port string
	// Namespace the Framework resources live in.
	Namespace string
	// ExitSpecPath is the resolved location of the exit spec YAML file.
	ExitSpecPath string
	// VirtualClustersPath optionally points to the virtual cluster
	// membership file. Empty means every user is authorized.
	VirtualClustersPath string
	// HivedSchedulerName routes pods to the GPU-isolation scheduler when a
	// job requests hived scheduling.
	HivedSchedulerName string
	// DefaultShmMB sizes the shared-memory volume when a job does not
	// override it.
	DefaultShmMB int32
}

// New Constructor
func New() *Config {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	config := Config{
		Port:                envOrDefault("SCHEDULER_PORT", "8080"),
		Namespace:           envOrDefault("SCHEDULER_NAMESPACE", "default"),
		ExitSpecPath:        resolveExitSpecPath(os.Getenv("EXIT_SPEC_PATH")),
		VirtualClustersPath: os.Getenv("VIRTUAL_CLUSTERS_PATH"),
		HivedSchedulerName:  envOrDefault("HIVED_SCHEDULER_NAME", "hivedscheduler"),
		DefaultShmMB:        512,
	}
	log.Debug().Msgf("Resolved exit spec path: %s", config.ExitSpecPath)
	return &config
}

func resolveExitSpecPath(override string) string {
	if override == "" {
		return filepath.Join(exitSpecBaseDir, exitSpecDefaultFile)
	}
	if filepath.IsAbs(override) {
		return override
	}
	return filepath.Join(exitSpecBaseDir, override)
}

func envOrDefault(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

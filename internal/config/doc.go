// Package config defines configuration structures for the platevs CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (PLATEVS_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    BaseURL         string
//	    Bucket          string
//	    Thresholds      []float64
//	    QcovLevels      []int
//	    Workers         int
//	    Timeout         time.Duration
//	    MatrixInterval  time.Duration
//	    ArchiveInterval time.Duration
//	    Progress        bool
//	}
package config

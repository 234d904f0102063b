// Package config handles loading and validating lot planner configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with LOTPLANNER_* environment variables
//   - Validation of required fields and geometry limits
//   - Default value handling
//
// Sensitive values (MQTT password, InfluxDB token) should be set via
// environment variables rather than committed config files.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Canvas.PixelsPerFoot)
package config

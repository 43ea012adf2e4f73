// Package config handles loading and validating Sensor Monitor Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - JWT secrets and MQTT credentials should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - Either an HS256 secret or an RS256 public key must be configured; the
//     service refuses to start without a way to verify bearer tokens
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config

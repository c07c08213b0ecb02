// Package config handles loading and validating GrandmaTV controller configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (bot tokens, broker passwords) should be set via
//     environment variables
//   - The config file should have restricted permissions (0600): it carries
//     the TV pairing key once the first registration completes
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.TV.IP)
package config

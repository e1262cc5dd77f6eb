// Package config provides the scenario library and the settings file.
//
// Scenarios:
//
// A scenario is a plain-text instruction file stored as <name>.txt in the
// scenario directory, in the same format the CLI reads:
//
//	# Sample input from the mission brief
//	5 3
//	1 1 E
//	RFRFRFRF
//
// Lines starting with '#' are comments; the leading comment block becomes the
// scenario description. Scenarios are validated on load and cached.
//
// Usage:
//
//	manager, err := config.NewManager("scenarios", input.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sc, err := manager.LoadScenario("sample")
//	scenarios, err := manager.ListScenarios()
//
// Settings:
//
// Server and CLI settings are read from a YAML file (mars.yaml by default).
// Missing files fall back to Defaults; present files overlay the defaults.
package config

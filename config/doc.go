// Package config provides configuration structures for the journal workflow
// primitives: the step chain, the lookup-or-create resolver, and the
// create_event command.
//
// Configuration only exists during initialization. Constructors read these
// structs and copy what they need into runtime components.
//
// # Defaults and Merging
//
// Every configuration type has a Default constructor and a Merge method.
// Loaded configuration merges over defaults:
//
//	cfg := config.DefaultCreateEventConfig()
//	var loaded config.CreateEventConfig
//	json.Unmarshal(data, &loaded)
//	cfg.Merge(&loaded)
//
// Merge semantics by field type:
//
//   - Strings: Merge if source is non-empty
//   - Integers: Merge if source is greater than zero
//   - Durations: Merge if source is greater than zero
//   - Booleans with false defaults: Merge if source is true
//
// # Durations
//
// Duration wraps time.Duration so files can spell timeouts as "2s" or
// "1500ms" in both JSON and YAML.
package config

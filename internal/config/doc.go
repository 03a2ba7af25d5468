// Package config provides the configuration of parsescope: where the
// backend lives and how to reach it, output format, cache location, and
// rendering limits.
//
// Values come from three layers, later layers winning: NewConfig defaults,
// the selected profile of the YAML configuration file, and CLI flags.
package config

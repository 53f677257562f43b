// Package config provides environment-based configuration plus the
// YAML-loaded routing rule tables.
//
// Scalars come from environment variables with fail-fast validation; the
// escalation paths, team capacities and indicator lexicons come from the
// file named by ROUTING_CONFIG, falling back to a built-in default set.
package config

// Package config loads HCL parameter files describing one or more defenses.
//
// A file holds optional top-level settings and one "defense" block per
// defense to build, labelled with the family and a unique name:
//
//	seed   = 7
//	format = "yaml"
//
//	defense "front" "client" {
//	  window = 14
//	  budget = 1700
//	  states = 4
//	}
//
//	defense "regulator" "reg" {
//	  initial_rate    = 277
//	  decay           = 0.94
//	  threshold       = 3.55
//	  upload_ratio    = 3.95
//	  cells_per_state = max(50, 100)
//	}
//
//	defense "surakav" "s" {
//	  trace = "ref.bursts"
//	}
//
// Expressions may call min, max, floor, ceil, abs and pow, and read the
// variable tor_cell_size. Trace paths are resolved relative to the file.
// Parameter sets are validated while loading, so a File that loads builds.
package config

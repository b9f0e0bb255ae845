// Package config loads and saves the YAML document describing a closed-loop MPPI
// experiment: optimizer settings, critic pipeline, simulation, scenario and logging.
//
// Named variations of [DefaultConfig] are available through [GetPreset].
package config

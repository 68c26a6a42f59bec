// Package config loads, normalizes, and validates routelabel configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ROUTELABEL_MODEL_URL
// environment fallback. The Config type centralizes every knob the review
// pipeline and CLI need: the extracted route tree, the labeled output tree,
// the archive holding area, the human label set, the model endpoint, crop
// geometry, and skip cadence.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical label names, and clear validation errors.
package config

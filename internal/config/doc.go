// Package config loads, normalizes, and validates weeder configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WEEDER_INPUT_DIR. The Config type centralizes every knob the CLI and the
// weeding run need: corpus and output locations, the subsampling
// hyperparameters, source decoding, logging, and run history.
//
// The subsampling parameters are passed through untouched. A zero or negative
// sample is not rejected here; the weeding core applies whatever the
// arithmetic produces.
package config

// Package config defines the prop settings and provides helpers to load,
// validate and save them in YAML format.
//
// Scalar settings (deadline, poll interval, backend, log level) can be
// overridden from DEFUSE_* environment variables after the file is read.
package config

// Package config defines settings used by the check-in binaries and provides
// helpers to load, validate and save them in YAML format.
//
// Values from an optional .env file and CHECKIN_* environment variables are
// laid over the file before validation fills in defaults.
package config

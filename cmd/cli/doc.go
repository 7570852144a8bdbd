// Package cli constructs the build-creater command-line interface. It wires
// the Cobra command hierarchy to the viper-backed configuration loader and the
// zap loggers, and registers the tag command.
package cli

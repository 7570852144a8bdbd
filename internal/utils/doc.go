// Package utils hosts the ambient plumbing shared by the CLI: the Viper-backed
// ConfigurationLoader and the zap LoggerFactory.
package utils

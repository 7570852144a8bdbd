// Package ui turns git command lifecycle events into console sentences for
// operators, while structured mode keeps the raw zap fields.
package ui

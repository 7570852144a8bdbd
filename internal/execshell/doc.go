// Package execshell runs git through a single logged entry point.
//
// ShellExecutor routes every invocation through a CommandRunner (OSCommandRunner
// in production) and reports command lifecycle events either as structured zap
// fields or to a CommandEventObserver. Commands always carry an explicit working
// directory; the process directory is never changed.
package execshell

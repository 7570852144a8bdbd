// Package submodules initializes the submodules of a working copy and fast-forwards each direct submodule onto its remote primary branch.
package submodules

// Package workspace manages the artifact staging directory for builds.
//
// The directory is recreated from scratch on every run so artifact contents
// are exactly the files staged by the current build, never leftovers from a
// previous one.
package workspace

// Package history persists completed pipeline runs in a local SQLite
// database so `pybundle history` can list what was built, when, from which
// commit, and how it ended.
package history

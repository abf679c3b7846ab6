// Package upgrade migrates tracker storage between on-disk format
// versions.
//
// An Upgrader holds a chain of steps keyed by the version they migrate
// from. Each step rewrites the files whose layout changed and advances the
// "format" entry of the config by one version. Running the chain through
// a storage.Overlay migrates a read-only snapshot without touching it.
package upgrade

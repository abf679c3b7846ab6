// Package testutil provides deterministic fixtures shared by tests.
package testutil

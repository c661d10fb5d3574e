// Package types defines the small set of shared types used across iekit:
// typed errors with stable categories, node handles, the game engine
// enumeration, and the collaborator interfaces (string table, catalog) the
// engine consults without owning.
//
// This package has no dependencies beyond the standard library.
package types

// Package shared holds utilities used across the edaqc codebase that do
// not belong to any single domain package.
//
// Currently this is the testutil subpackage: structured-log capture
// helpers for asserting on the engine's diagnostic logging. Code here
// must stay free of domain logic and must not import other internal
// packages.
package shared

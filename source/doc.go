// Package source provides built-in pool source implementations.
//
// Pool sources supply the candidates and role capacity of an assignment round.
// The package includes:
//
//   - Static: Fixed pool held in memory, replaceable with Update
//   - File: YAML pool description read on every LoadPool call
//
// Custom sources can be implemented by satisfying the types.PoolSource interface.
package source

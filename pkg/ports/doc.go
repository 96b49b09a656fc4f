/*
Package ports defines the driven ports (interfaces) around the circuit engine.

The engine itself is pure: it takes element specs and returns a result. These interfaces
let the outer layers (sandbox manager, HTTP and MCP adapters, CLI) work with different
storage backends and challenge sources without knowing which one is plugged in.

# Key Interfaces

  - LayoutStore: Persists sandbox layouts (memory, file, Redis, Badger).
  - ChallengeCatalog: Serves challenge definitions (memory, Loam).
  - DistributedLocker: Coordinates access to one sandbox across replicas.
  - ReadingSink: Receives per-element readings after a simulation.
*/
package ports

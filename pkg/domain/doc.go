/*
Package domain contains the core domain models of the circuitlab engine.

It defines the electrical vocabulary shared by the engine runtime, the adapters and the
host application. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Point / Placement: 2D positions and the transform from component-relative terminal
    offsets to world coordinates.
  - Kind: the closed set of element kinds together with their conduction and resistive traits.
  - ElementSpec / Element: a placed two-terminal component as supplied by the caller and
    as normalized by the registry.
  - Junction: a cluster of terminals judged electrically identical.
  - Result / Reading: the outcome of a simulation pass and the per-element readings the
    host applies to its visuals.
  - Layout / Challenge: saved sandbox circuits and teaching content built on top of them.
*/
package domain

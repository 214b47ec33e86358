/*
Package ports defines the driven ports (interfaces) for the chomsky engine.

These interfaces decouple the conversion core from external implementations,
allowing the engine to work with various storage backends and grammar sources.

# Key Interfaces

  - ConversionStore: Persists conversion records (e.g., in Memory or Redis).
  - GrammarLibrary: Responsible for loading named grammars (e.g., from Loam or Memory).
*/
package ports

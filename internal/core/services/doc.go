// Package services implements the driving port interfaces.
// Services contain the question answering core and orchestrate
// calls to driven ports (adapters).
//
// The orchestrator owns an ordered list of strategies built once at
// startup; each strategy owns the state it needs (keyword maps, a vector
// store handle) so there is no package level mutable state.
package services

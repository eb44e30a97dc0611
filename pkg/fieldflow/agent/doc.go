// Package agent defines declarative agent configurations.
//
// An agent is described by an agent.json file: identity, persona,
// the fields it collects, and what to do on completion. Definitions
// are validated on parse and carry defaults for everything optional,
// so downstream code never checks for missing settings.
//
// Load a single definition:
//
//	def, err := agent.Load("agents/registration/agent.json")
//
// Or discover every agent under a directory:
//
//	reg, err := agent.Discover("agents", logger)
//	def, ok := reg.Get("registration")
//
// Fields are ordered by their "order" key, split into required and
// optional sets, and may be gated by simple conditions on already
// collected values ("country == US").
package agent

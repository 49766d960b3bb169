package model

// RunState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - Registered as Graph Local State via compose.WithGenLocalState, so every
//     invocation starts from a fresh zero value.
//   - Reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler, compose.ProcessState),
//     which Eino serializes.
type RunState struct {
	SessionID string
	Planner   PlannerState // replaced, never mutated in place
	Usage     *UsageCost   // set by the itinerary model post-handler
}

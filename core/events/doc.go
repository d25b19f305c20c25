// Package events defines the planning related events emitted on the event bus.
//
// Available event types:
//   - PlanEvent: one optimization run finished
//   - AllocationEvent: one assessment's allocation outcome
package events

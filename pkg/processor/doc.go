// Package processor re-renders buffered messages whenever the trigger
// index or the enable state changes, and screens incoming messages.
//
// A Processor is not safe for concurrent use. Every call is expected to
// come from one Loop, which also serializes the reactions to state
// callbacks and store change signals.
package processor

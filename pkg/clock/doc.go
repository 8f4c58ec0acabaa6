// Package clock abstracts timer scheduling behind a small interface.
//
// Production code uses System(), which delegates to time.AfterFunc. Tests
// use Manual, which moves time explicitly and runs due callbacks
// synchronously, so heartbeat intervals measured in tens of seconds can
// be exercised in microseconds.
package clock

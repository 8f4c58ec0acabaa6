// Package emitter provides a small typed publish/subscribe feed.
//
// Connections and transports publish lifecycle events through feeds.
// Subscribing returns a stable handle; unsubscription is by handle, never
// by callback identity, so the same function can be registered at several
// places and removed precisely.
//
// # Delivery Order
//
// Subscribers run in registration order. A subscriber cancelled while a
// publish is in flight is skipped if its callback has not run yet. A
// once-subscription is consumed before its callback runs.
package emitter

// Package config loads the server-side connection settings.
//
// The configuration supplies the heartbeat timings and upgrade offers a
// connection advertises in its handshake. Config satisfies the
// conn.ServerContext interface, so a loaded file can be handed straight
// to conn.New.
package config

// Package storage persists tcplink state in an embedded Badger database.
//
// BadgerEngine is the KV layer. CommandStore and ProfileStore keep saved
// commands and the user profile on top of it as JSON values under fixed
// key prefixes.
package storage

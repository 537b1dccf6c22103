// Package websockets holds the wire types of the Bitmark subscription server.
//
// The server speaks a JSON command/reply protocol: the client sends commands
// carrying an id, the server answers with a reply carrying the same id, and
// publications arrive as pushes on a channel. A frame may carry several
// newline delimited messages, and an empty message is a ping.
package websockets

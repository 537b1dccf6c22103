package websockets

import (
	"bytes"
	"encoding/json"
)

// Command is a client to server message. Exactly one request field is set.
type Command struct {
	ID          uint32              `json:"id"`
	Connect     *ConnectRequest     `json:"connect,omitempty"`
	Subscribe   *SubscribeRequest   `json:"subscribe,omitempty"`
	Unsubscribe *UnsubscribeRequest `json:"unsubscribe,omitempty"`
}

type ConnectRequest struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
}

type SubscribeRequest struct {
	Channel string `json:"channel"`
}

type UnsubscribeRequest struct {
	Channel string `json:"channel"`
}

// Reply is a server to client message: a command reply when ID is set,
// an asynchronous push when Push is set, and a ping when neither is.
type Reply struct {
	ID          uint32          `json:"id,omitempty"`
	Error       *Error          `json:"error,omitempty"`
	Push        *Push           `json:"push,omitempty"`
	Connect     json.RawMessage `json:"connect,omitempty"`
	Subscribe   json.RawMessage `json:"subscribe,omitempty"`
	Unsubscribe json.RawMessage `json:"unsubscribe,omitempty"`
}

// IsPing reports whether the reply is a server ping.
func (r *Reply) IsPing() bool {
	return r.ID == 0 && r.Push == nil && r.Error == nil
}

// Error is a protocol level error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Push is an asynchronous server message on a channel.
type Push struct {
	Channel     string           `json:"channel"`
	Pub         *Publication     `json:"pub,omitempty"`
	Unsubscribe *UnsubscribePush `json:"unsubscribe,omitempty"`
}

type Publication struct {
	Data json.RawMessage `json:"data"`
}

type UnsubscribePush struct {
	Code   int    `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Pong is the frame sent in answer to a server ping.
var Pong = []byte("{}")

// SplitFrame splits a frame into its newline delimited messages.
// An empty frame yields no messages.
func SplitFrame(frame []byte) [][]byte {
	var messages [][]byte
	for _, line := range bytes.Split(frame, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			messages = append(messages, line)
		}
	}
	return messages
}

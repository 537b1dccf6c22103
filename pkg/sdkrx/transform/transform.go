// Package transform rewrites or drops bus events before they leave the process.
package transform

import (
	"slices"
	"strings"
)

// Message is one event on its way to an output.
type Message struct {
	Topic   string
	Payload any
}

// Func transforms a message. Returning nil drops the message. Returning false
// stops the chain after this function.
type Func func(msg *Message) (*Message, bool)

// Apply runs msg through funcs in order and returns nil if any of them dropped it.
func Apply(msg *Message, funcs ...Func) *Message {
	for _, fn := range funcs {
		var cont bool
		msg, cont = fn(msg)
		if msg == nil || !cont {
			return msg
		}
	}
	return msg
}

// OnlyTopics keeps messages whose topic is one of topics.
func OnlyTopics(topics ...string) Func {
	return func(msg *Message) (*Message, bool) {
		if slices.Contains(topics, msg.Topic) {
			return msg, true
		}
		return nil, false
	}
}

// DropTopics drops messages whose topic is one of topics.
func DropTopics(topics ...string) Func {
	return func(msg *Message) (*Message, bool) {
		if slices.Contains(topics, msg.Topic) {
			return nil, false
		}
		return msg, true
	}
}

// AddTopicPrefix prepends prefix to the topic.
//
//	AddTopicPrefix("bitmark.") // "new-block" becomes "bitmark.new-block"
func AddTopicPrefix(prefix string) Func {
	return func(msg *Message) (*Message, bool) {
		return &Message{Topic: prefix + msg.Topic, Payload: msg.Payload}, true
	}
}

// TrimTopicPrefix removes prefix from the topic if present.
func TrimTopicPrefix(prefix string) Func {
	return func(msg *Message) (*Message, bool) {
		return &Message{Topic: strings.TrimPrefix(msg.Topic, prefix), Payload: msg.Payload}, true
	}
}

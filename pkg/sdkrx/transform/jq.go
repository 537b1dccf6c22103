package transform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	"go.uber.org/zap"
)

// Jq returns a Func that replaces the payload with the result of a jq query.
//
// The query sees the payload in its JSON form and the topic as $topic:
//
//	Jq(`{block: ., topic: $topic}`, logger)
//	Jq(`select(.presence == false) | .bitmark_id`, logger)
//
// Several results are collected into an array; no result drops the message.
// A runtime error passes the message through unchanged and is logged.
func Jq(query string, logger *zap.Logger) (Func, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq query '%s': %w", query, err)
	}

	code, err := gojq.Compile(parsed, gojq.WithVariables([]string{"$topic"}))
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq query '%s': %w", query, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return func(msg *Message) (*Message, bool) {
		input, err := normalize(msg.Payload)
		if err != nil {
			logger.Error("jq transform: payload is not JSON serializable",
				zap.String("jq_query", query),
				zap.String("topic", msg.Topic),
				zap.Error(err))
			return msg, true
		}

		iter := code.RunWithContext(context.Background(), input, msg.Topic)

		var results []any
		for {
			result, ok := iter.Next()
			if !ok {
				break
			}
			if execErr, isErr := result.(error); isErr {
				logger.Error("jq transform: execution error",
					zap.String("jq_query", query),
					zap.String("topic", msg.Topic),
					zap.Error(execErr))
				return msg, true
			}
			results = append(results, result)
		}

		switch len(results) {
		case 0:
			return nil, false
		case 1:
			return &Message{Topic: msg.Topic, Payload: results[0]}, true
		default:
			return &Message{Topic: msg.Topic, Payload: results}, true
		}
	}, nil
}

// normalize converts payload to the plain maps, slices and float64 numbers gojq works on.
func normalize(payload any) (any, error) {
	switch p := payload.(type) {
	case nil, bool, string, float64, map[string]any, []any:
		return p, nil
	case int64:
		return float64(p), nil
	case []byte:
		var out any
		if err := json.Unmarshal(p, &out); err != nil {
			return string(p), nil
		}
		return out, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

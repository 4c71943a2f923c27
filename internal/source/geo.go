package source

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var ErrBoundaries = errors.New("invalid boundary collection")

// ParseBoundaries checks that data is a feature collection and returns it
// unchanged. The features themselves are only read by the renderer.
func ParseBoundaries(data []byte) (json.RawMessage, error) {
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBoundaries, err)
	}
	if fc.Features == nil {
		return nil, fmt.Errorf("%w: no features array", ErrBoundaries)
	}
	return json.RawMessage(data), nil
}

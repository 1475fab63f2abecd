package render

import (
	"encoding/json"
	"fmt"
)

// JSONRenderer outputs the draw commands as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Outputs frame draw commands as JSON for canvas-based hosts"
}

// ContentType returns the MIME type of JSON output
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}

// Render marshals the frame
func (r *JSONRenderer) Render(frame *Frame) ([]byte, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frame: %w", err)
	}
	return data, nil
}

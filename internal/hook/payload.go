package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// Payload is the hook input Cursor delivers on stdin as a single JSON object.
// Only Status and LoopCount drive the decision; the remaining fields are
// conversation context carried along for logging.
type Payload struct {
	// Status is the lifecycle tag for the turn that just ended ("completed",
	// "aborted", "error", or any future value). Missing defaults to "".
	Status string

	// LoopCount is how many automatic continuations the editor has already
	// granted in this conversation. Missing defaults to 0.
	LoopCount int

	ConversationID string
	GenerationID   string
	HookEventName  string
	WorkspaceRoots []string
}

var errNotObject = errors.New("payload is not a JSON object")

// ParsePayload decodes exactly one JSON object from r.
//
// Missing keys fall back to defaults. A payload where status is present but
// not a string, or loop_count is present but not a number, is rejected: no
// ordering is defined over a non-numeric count, so the safe reading is
// "malformed". Context fields are best effort and never fail the parse.
// Callers map every error to the empty decision.
func ParsePayload(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("reading payload: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Payload{}, fmt.Errorf("decoding payload: %w", err)
	}
	if fields == nil {
		// JSON null decodes into a nil map without error.
		return Payload{}, errNotObject
	}

	var p Payload
	if v, ok := fields["status"]; ok {
		s, ok := v.(string)
		if !ok {
			return Payload{}, fmt.Errorf("payload status: expected string, got %T", v)
		}
		p.Status = s
	}
	if v, ok := fields["loop_count"]; ok {
		n, ok := v.(float64)
		if !ok {
			return Payload{}, fmt.Errorf("payload loop_count: expected number, got %T", v)
		}
		p.LoopCount = clampCount(n)
	}

	p.ConversationID, _ = fields["conversation_id"].(string)
	p.GenerationID, _ = fields["generation_id"].(string)
	p.HookEventName, _ = fields["hook_event_name"].(string)
	if roots, ok := fields["workspace_roots"].([]any); ok {
		for _, root := range roots {
			if s, ok := root.(string); ok {
				p.WorkspaceRoots = append(p.WorkspaceRoots, s)
			}
		}
	}

	return p, nil
}

// clampCount converts a JSON number to an int. Values beyond the int32 range
// are clamped so the conversion stays deterministic across platforms; fractions
// truncate toward zero, which cannot move a count across the continuation
// threshold.
func clampCount(n float64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

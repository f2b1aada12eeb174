package nodes

import "strings"

// ValidateMessage rejects blank input before any routing work happens.
func ValidateMessage(in GraphInput) (*GraphState, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrEmptyMessage
	}
	return &GraphState{Input: in}, nil
}

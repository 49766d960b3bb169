package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Stage is the coarse lifecycle position of a PlannerState.
type Stage string

const (
	StageUnfilled  Stage = "unfilled"
	StageFilled    Stage = "filled"
	StageRequested Stage = "requested"
)

// PlannerState is the per-request conversation record.
//
// The With* methods are copy-on-write: they return a new state and never
// modify the receiver. Messages are shared between states but never
// mutated once appended, so copying the slice header plus one new entry
// is enough to keep earlier states intact.
//
// Inside the graph the state is registered as Graph Local State via
// compose.WithGenLocalState and only replaced from state handlers or
// compose.ProcessState, which Eino serializes.
type PlannerState struct {
	Messages          []*schema.Message
	City              string
	Interests         []string
	AdditionalDetails string
	Itinerary         string
}

// WithCity sets the city and logs the raw input as a user message.
func (s PlannerState) WithCity(raw string) PlannerState {
	next := s.clone()
	next.City = raw
	next.Messages = appendMessage(s.Messages, schema.UserMessage(raw))
	return next
}

// WithInterests splits raw into interests and logs it as a user message.
func (s PlannerState) WithInterests(raw string) PlannerState {
	next := s.clone()
	next.Interests = SplitInterests(raw)
	next.Messages = appendMessage(s.Messages, schema.UserMessage(raw))
	return next
}

// WithAdditionalDetails sets the free-text details and logs them as a user message.
func (s PlannerState) WithAdditionalDetails(raw string) PlannerState {
	next := s.clone()
	next.AdditionalDetails = raw
	next.Messages = appendMessage(s.Messages, schema.UserMessage(raw))
	return next
}

// WithItinerary stores the generated text and logs it as an assistant message.
func (s PlannerState) WithItinerary(text string) PlannerState {
	next := s.clone()
	next.Itinerary = text
	next.Messages = appendMessage(s.Messages, schema.AssistantMessage(text, nil))
	return next
}

// Stage reports unfilled until all three fields were folded in, then
// filled, then requested once an itinerary is present.
func (s PlannerState) Stage() Stage {
	switch {
	case s.Itinerary != "":
		return StageRequested
	case s.userTurns() >= 3:
		return StageFilled
	default:
		return StageUnfilled
	}
}

// JoinedInterests renders the interests the way the instruction template expects.
func (s PlannerState) JoinedInterests() string {
	return strings.Join(s.Interests, ", ")
}

func (s PlannerState) userTurns() int {
	n := 0
	for _, m := range s.Messages {
		if m != nil && m.Role == schema.User {
			n++
		}
	}
	return n
}

func (s PlannerState) clone() PlannerState {
	next := s
	if s.Interests != nil {
		next.Interests = append([]string(nil), s.Interests...)
	}
	return next
}

// appendMessage always allocates so the caller's backing array is never shared for writes.
func appendMessage(msgs []*schema.Message, m *schema.Message) []*schema.Message {
	out := make([]*schema.Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, m)
}

// SplitInterests splits a comma-separated list and trims each token.
// Empty tokens (e.g. from a trailing comma) are kept.
func SplitInterests(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionSlot names one of the four option fields of a Question.
type OptionSlot int

const (
	Option1 OptionSlot = iota + 1
	Option2
	Option3
	Option4
)

var OptionSlots = []OptionSlot{Option1, Option2, Option3, Option4}

func (s OptionSlot) Valid() bool {
	return s >= Option1 && s <= Option4
}

func (s OptionSlot) String() string {
	return fmt.Sprintf("option%d", int(s))
}

// ParseOptionSlot accepts "option3", "Option3" or "3".
func ParseOptionSlot(raw string) (OptionSlot, error) {
	v := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "option")
	n, err := strconv.Atoi(v)
	if err != nil || !OptionSlot(n).Valid() {
		return 0, fmt.Errorf("invalid option slot %q", raw)
	}
	return OptionSlot(n), nil
}

// Options returns the four option values in slot order.
func (q *Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// Option returns the value held by slot, or "" for an invalid slot.
func (q *Question) Option(slot OptionSlot) string {
	if !slot.Valid() {
		return ""
	}
	return q.Options()[slot-1]
}

// CorrectAnswer is the value of the correct option.
func (q *Question) CorrectAnswer() string {
	return q.Option(q.CorrectOption)
}

// IsCorrect reports whether answer equals the correct option value.
func (q *Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer()
}

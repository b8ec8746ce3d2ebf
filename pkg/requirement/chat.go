package requirement

import (
	"fmt"
	"strings"

	"github.com/halgrim/quest-guide/pkg/gamestate"
)

// ChatMessageRequirement checks whether any recent chat line contains the
// configured text.
type ChatMessageRequirement struct {
	text string
}

// NewChatMessageRequirement creates a chat-log substring check.
func NewChatMessageRequirement(text string) (*ChatMessageRequirement, error) {
	if text == "" {
		return nil, fmt.Errorf("chat message requirement needs text to match")
	}
	return &ChatMessageRequirement{text: text}, nil
}

func (r *ChatMessageRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil {
		return false
	}
	for _, line := range s.ChatLog {
		if strings.Contains(line, r.text) {
			return true
		}
	}
	return false
}

func (r *ChatMessageRequirement) DisplayText() string {
	return fmt.Sprintf("seen chat message %q", r.text)
}

// DialogRequirement checks whether any recent NPC dialog line contains the
// configured text.
type DialogRequirement struct {
	text string
}

// NewDialogRequirement creates a dialog-log substring check.
func NewDialogRequirement(text string) (*DialogRequirement, error) {
	if text == "" {
		return nil, fmt.Errorf("dialog requirement needs text to match")
	}
	return &DialogRequirement{text: text}, nil
}

func (r *DialogRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil {
		return false
	}
	for _, line := range s.DialogLog {
		if strings.Contains(line, r.text) {
			return true
		}
	}
	return false
}

func (r *DialogRequirement) DisplayText() string {
	return fmt.Sprintf("seen dialog %q", r.text)
}

// WidgetTextRequirement checks that a UI widget currently shows exactly the
// configured text.
type WidgetTextRequirement struct {
	group int
	child int
	text  string
}

// NewWidgetTextRequirement creates a widget text equality check.
func NewWidgetTextRequirement(group, child int, text string) (*WidgetTextRequirement, error) {
	if text == "" {
		return nil, fmt.Errorf("widget text requirement needs text to match")
	}
	return &WidgetTextRequirement{group: group, child: child, text: text}, nil
}

func (r *WidgetTextRequirement) Check(s *gamestate.Snapshot) bool {
	if s == nil || s.WidgetText == nil {
		return false
	}
	key := fmt.Sprintf("%d:%d", r.group, r.child)
	return s.WidgetText[key] == r.text
}

func (r *WidgetTextRequirement) DisplayText() string {
	return fmt.Sprintf("widget %d:%d shows %q", r.group, r.child, r.text)
}

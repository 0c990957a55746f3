package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

const systemInstruction = "You are an assistant answering questions about a single video. " +
	"Answer using only the transcript passages provided below. " +
	"If the answer is not contained in the passages, say that the video does not cover it. " +
	"Do not invent information."

// PromptBuilder assembles a bounded chat prompt from retrieved passages,
// conversation history and the incoming question. Passages are included in
// ranked order under a character budget; history is limited to the most
// recent turns so prompt size stays bounded across a long conversation.
type PromptBuilder struct {
	historyWindow int
	contextBudget int
}

// NewPromptBuilder creates a prompt builder. historyWindow is the number of
// most recent conversation turns to keep; contextBudget is the character
// budget for retrieved passages.
func NewPromptBuilder(historyWindow, contextBudget int) *PromptBuilder {
	if historyWindow < 0 {
		historyWindow = 0
	}
	if contextBudget <= 0 {
		contextBudget = domain.DefaultContextBudget
	}
	return &PromptBuilder{
		historyWindow: historyWindow,
		contextBudget: contextBudget,
	}
}

// Build assembles the chat messages for one question. chunks must be in
// ranked order (most relevant first); lower-ranked chunks are dropped first
// when the context budget is exceeded.
func (b *PromptBuilder) Build(question string, chunks []domain.Chunk, history []domain.ConversationTurn) []driven.ChatMessage {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\nTranscript passages:\n")

	// The budget counts characters; truncation goes through runes so a cut
	// never splits a multi-byte sequence.
	used := 0
	for i, chunk := range chunks {
		passage := fmt.Sprintf("\n[Passage %d]\n%s\n", i+1, chunk.Text)
		length := utf8.RuneCountInString(passage)
		if used+length > b.contextBudget {
			// Always keep at least the top-ranked passage, truncated to fit.
			if i == 0 {
				if runes := []rune(passage); b.contextBudget < len(runes) {
					passage = string(runes[:b.contextBudget])
				}
				sb.WriteString(passage)
			}
			break
		}
		sb.WriteString(passage)
		used += length
	}

	messages := make([]driven.ChatMessage, 0, b.historyWindow+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: sb.String(),
	})

	// Oldest turns beyond the window are dropped first.
	turns := history
	if b.historyWindow == 0 {
		turns = nil
	} else if len(turns) > b.historyWindow {
		turns = turns[len(turns)-b.historyWindow:]
	}
	for _, turn := range turns {
		messages = append(messages, driven.ChatMessage{
			Role:    turn.Role,
			Content: turn.Text,
		})
	}

	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleUser,
		Content: question,
	})

	return messages
}

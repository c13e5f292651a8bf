package mockapi

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/frontdeskhq/console/internal/models"
)

// Simulator fabricates inbound calls for the demo inbox. With an API key it
// asks a live model to improvise the conversation; without one it falls back
// to canned scripts.
type Simulator struct {
	client *openai.Client
	model  string
}

func NewSimulator(apiKey string) *Simulator {
	s := &Simulator{model: "gpt-4o-mini"}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

type scriptTurn struct {
	role string
	text string
}

type callScript struct {
	callerName   string
	callerNumber string
	outcome      string
	duration     int
	summary      string
	turns        []scriptTurn
}

var cannedScripts = []callScript{
	{
		callerName:   "Maria Santos",
		callerNumber: "+1 555 0142",
		outcome:      "booked",
		duration:     104,
		summary:      "Booked an appointment for Thursday afternoon.",
		turns: []scriptTurn{
			{"agent", "Thanks for calling! How can I help you today?"},
			{"caller", "Hi, I'd like to book an appointment this week if possible."},
			{"agent", "Of course. We have openings Thursday at 2pm or Friday at 10am."},
			{"caller", "Thursday at 2 works great."},
			{"agent", "You're all set for Thursday at 2pm. Anything else?"},
			{"caller", "No, that's everything. Thank you!"},
		},
	},
	{
		callerName:   "Tom Becker",
		callerNumber: "+1 555 0177",
		outcome:      "answered",
		duration:     62,
		summary:      "Asked about opening hours and pricing.",
		turns: []scriptTurn{
			{"agent", "Hello, thanks for calling. What can I do for you?"},
			{"caller", "What are your hours on Saturdays?"},
			{"agent", "We're open 9am to 1pm on Saturdays."},
			{"caller", "And do you take walk-ins?"},
			{"agent", "We do, though booked appointments are seen first."},
			{"caller", "Got it, thanks."},
		},
	},
	{
		callerName:   "Unknown",
		callerNumber: "+1 555 0109",
		outcome:      "voicemail",
		duration:     21,
		summary:      "Left a voicemail asking for a callback about an invoice.",
	},
	{
		callerName:   "Priya Nair",
		callerNumber: "+1 555 0163",
		outcome:      "missed",
		duration:     0,
		summary:      "",
	},
}

// NewCall builds one call record, ready to insert.
func (s *Simulator) NewCall(ctx context.Context, accountID uuid.UUID, profile models.AgentProfile) *CallRecord {
	script := cannedScripts[rand.Intn(len(cannedScripts))]
	turns := script.turns

	if s.client != nil && script.outcome != "missed" {
		if improvised, err := s.improvise(ctx, profile, script.outcome); err != nil {
			log.Printf("⚠️ Live simulation failed, using canned script: %v", err)
		} else if len(improvised) > 0 {
			turns = improvised
		}
	}

	now := time.Now()
	call := &CallRecord{
		ID:              uuid.New(),
		AccountID:       accountID,
		CallerName:      script.callerName,
		CallerNumber:    script.callerNumber,
		StartedAt:       now,
		DurationSeconds: script.duration,
		Outcome:         script.outcome,
		Summary:         script.summary,
		Transcript:      jsonColumn(transcriptFrom(turns, now), "[]"),
		HasRecording:    script.outcome == "answered" || script.outcome == "booked",
		Unread:          true,
	}
	return call
}

// improvise asks the model for a short receptionist transcript and parses
// the CALLER:/AGENT: lines back into turns.
func (s *Simulator) improvise(ctx context.Context, profile models.AgentProfile, outcome string) ([]scriptTurn, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSimulationPrompt(profile)},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Write a call that ends with outcome %q.", outcome)},
		},
		Temperature: 0.9,
		MaxTokens:   400,
	})
	if err != nil {
		return nil, fmt.Errorf("openai error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}
	return parseTurns(resp.Choices[0].Message.Content), nil
}

func buildSimulationPrompt(profile models.AgentProfile) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You play both sides of a phone call to %s.\n", profile.BusinessName))
	if profile.Greeting != "" {
		sb.WriteString(fmt.Sprintf("The receptionist opens with: %s\n", profile.Greeting))
	}
	sb.WriteString("\n")

	if len(profile.CoreServices) > 0 {
		sb.WriteString("=== SERVICES ===\n")
		for _, svc := range profile.CoreServices {
			sb.WriteString(fmt.Sprintf("- %s\n", svc))
		}
		sb.WriteString("\n")
	}
	if len(profile.FAQEntries) > 0 {
		sb.WriteString("=== FAQ ===\n")
		for _, faq := range profile.FAQEntries {
			sb.WriteString(fmt.Sprintf("Q: %s\nA: %s\n\n", faq.Question, faq.Answer))
		}
	}

	sb.WriteString("Instructions:\n")
	sb.WriteString("- 6 to 10 short lines, alternating\n")
	sb.WriteString("- Prefix every line with CALLER: or AGENT:\n")
	sb.WriteString("- Stay consistent with the services and FAQ above\n")
	sb.WriteString("- No stage directions, no extra commentary\n")

	return sb.String()
}

func parseTurns(text string) []scriptTurn {
	var turns []scriptTurn
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "CALLER:"):
			turns = append(turns, scriptTurn{"caller", strings.TrimSpace(strings.TrimPrefix(line, "CALLER:"))})
		case strings.HasPrefix(line, "AGENT:"):
			turns = append(turns, scriptTurn{"agent", strings.TrimSpace(strings.TrimPrefix(line, "AGENT:"))})
		}
	}
	return turns
}

// transcriptFrom spaces the turns a few seconds apart starting at the call
// start.
func transcriptFrom(turns []scriptTurn, startedAt time.Time) []models.TranscriptTurn {
	out := make([]models.TranscriptTurn, 0, len(turns))
	for i, turn := range turns {
		out = append(out, models.TranscriptTurn{
			Role:      turn.role,
			Text:      turn.text,
			Timestamp: startedAt.Add(time.Duration(i*9) * time.Second),
		})
	}
	return out
}

// Package ai runs the Gemini assistant over the billing reports.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/clock"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	DefaultModel  = "gemini-2.0-flash-001"
	maxToolRounds = 5
)

var ErrNotConfigured = errors.New("assistant_not_configured")

// Agent answers questions about sales using the Toolbox.
type Agent struct {
	apiKey string
	model  string
	tools  *Toolbox
	clock  clock.Clock
	log    *zap.Logger
}

func NewAgent(apiKey string, tools *Toolbox, c clock.Clock, log *zap.Logger) *Agent {
	if c == nil {
		c = clock.System()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{apiKey: apiKey, model: DefaultModel, tools: tools, clock: c, log: log.Named("ai")}
}

func (a *Agent) systemPrompt() string {
	today := a.clock.Now().In(a.tools.loc).Format(dateLayout)
	return fmt.Sprintf(`Today is %s. You are the assistant of a signage company's billing desk.

RULES:
1. SALES: For revenue, tax or invoice counts in a period, call 'get_sales_report'. Work out the dates yourself from phrases like "last month".
2. INVOICES: For questions about recent bills or customers, call 'list_recent_invoices'.
3. TRENDS: For monthly or yearly figures, call 'get_dashboard'.
4. WORDS: To spell an amount, call 'amount_in_words'.
Amounts are Indian rupees. Answer briefly.`, today)
}

// Ask sends one message and follows tool calls until the model replies in text.
func (a *Agent) Ask(ctx context.Context, session auth.Session, message string) (string, error) {
	if a.apiKey == "" {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(a.systemPrompt()))
	model.Tools = a.tools.Declarations()

	chat := model.StartChat()
	resp, err := chat.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return replyText(resp), nil
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			parts = append(parts, a.run(ctx, session, call))
		}
		resp, err = chat.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("gemini send tool result: %w", err)
		}
	}
	return replyText(resp), nil
}

// run executes a call; failures go back to the model as an error field.
func (a *Agent) run(ctx context.Context, session auth.Session, call genai.FunctionCall) genai.FunctionResponse {
	start := time.Now()
	out, err := a.tools.Call(ctx, session, call)
	if err != nil {
		a.log.Warn("tool call failed", zap.String("tool", call.Name), zap.Error(err))
		out = map[string]any{"error": err.Error()}
	} else {
		a.log.Debug("tool call", zap.String("tool", call.Name), zap.Duration("latency", time.Since(start)))
	}
	return genai.FunctionResponse{Name: call.Name, Response: out}
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0].FunctionCalls()
}

func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "I completed the action."
	}
	return b.String()
}

package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/template"
)

// webhookResponseLimit caps how much of a webhook reply is kept in the
// completion result.
const webhookResponseLimit = 500

// completion finishes the session: it sends the completion message
// with collected values substituted in, then runs the configured
// action. Action failures are recorded in the result rather than
// returned, so a broken webhook never strands a finished conversation.
func (n *nodes) completion(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	message := n.def.Completion.Message
	if expanded, err := n.expander.Expand(message, s.Collected); err == nil {
		message = expanded
	}
	s.AddBotMessage(message)

	s.Result = n.runCompletionAction(ctx, s)
	s.IsComplete = true
	s.ExpectedField = ""

	ctx.Logger().Info("session complete",
		"agent_id", n.def.ID,
		"action", n.def.Completion.Action,
		"collected", len(s.Collected),
	)
	return s, nil
}

func (n *nodes) runCompletionAction(ctx fieldflow.Context, s state.Snapshot) map[string]any {
	action := n.def.Completion.Action

	switch {
	case action == "" || action == "log":
		ctx.Logger().Info("collected fields", "data", s.Collected)
		return map[string]any{
			"action": "log",
			"status": "success",
			"data":   s.Collected,
		}

	case strings.HasPrefix(action, "webhook:"):
		url := strings.TrimPrefix(action, "webhook:")
		return n.postWebhook(ctx, url, s.Collected)

	default:
		hook, ok := n.hooks.Get(action)
		if !ok {
			ctx.Logger().Warn("unknown completion action, logging instead", "action", action)
			return map[string]any{
				"action": action,
				"status": "error",
				"error":  fmt.Sprintf("no hook registered for action %q", action),
				"data":   s.Collected,
			}
		}
		data, err := hook(ctx, n.def.ID, s.Collected)
		if err != nil {
			ctx.Logger().Warn("completion hook failed", "action", action, "error", err)
			return map[string]any{
				"action": action,
				"status": "error",
				"error":  err.Error(),
			}
		}
		result := map[string]any{
			"action": action,
			"status": "success",
		}
		for k, v := range data {
			result[k] = v
		}
		return result
	}
}

// postWebhook delivers the collected fields as a JSON POST.
func (n *nodes) postWebhook(ctx fieldflow.Context, url string, collected map[string]any) map[string]any {
	body, err := json.Marshal(map[string]any{
		"agent_id": n.def.ID,
		"data":     collected,
	})
	if err != nil {
		return webhookError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return webhookError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		ctx.Logger().Warn("webhook delivery failed", "url", url, "error", err)
		return webhookError(err)
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(io.LimitReader(resp.Body, webhookResponseLimit))
	return map[string]any{
		"action":      "webhook",
		"status":      "success",
		"status_code": resp.StatusCode,
		"response":    string(reply),
	}
}

func webhookError(err error) map[string]any {
	return map[string]any{
		"action": "webhook",
		"status": "error",
		"error":  err.Error(),
	}
}

// newExpander builds the substitution engine for completion messages.
// Unknown placeholders are left as-is so a typo in the template still
// produces a sendable message.
func newExpander() *template.Expander {
	return template.NewExpander(template.WithMissingAction(template.MissingKeep))
}

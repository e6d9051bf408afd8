// poll.go implements the submit-and-poll chat path. The backend only offers
// fire-and-poll semantics for chat turns: the submission is acknowledged as
// "processing" and the real answer must be fetched by repeated status checks.
package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Default polling limits, overridable per client via WithPollBudget.
// MaxPollAttempts bounds the loop regardless of elapsed time; with the
// adaptive schedule that works out to roughly 15 minutes.
const (
	MaxPollAttempts      = 180
	maxConsecutiveErrors = 5
	initialPollDelay     = 1 * time.Second
)

// ErrPollTimeout is returned when the attempt budget is exhausted while the
// backend still reports the operation as processing.
var ErrPollTimeout = errors.New("api: timed out waiting for chat completion")

// ErrTooManyPollErrors is returned after too many consecutive transport
// failures during status polling.
var ErrTooManyPollErrors = errors.New("api: too many consecutive errors while polling for status")

// NextPollDelay computes the delay before the next status poll from the
// server-reported elapsed processing time and the previous delay:
//
//	elapsed < 10s          poll every second
//	10s <= elapsed < 60s   poll every two seconds
//	60s <= elapsed < 180s  previous delay x1.2, capped at 5s
//	elapsed >= 180s        previous delay x1.1, capped at 10s
func NextPollDelay(elapsed, prev time.Duration) time.Duration {
	switch {
	case elapsed < 10*time.Second:
		return 1 * time.Second
	case elapsed < 60*time.Second:
		return 2 * time.Second
	case elapsed < 180*time.Second:
		return minDuration(time.Duration(float64(prev)*1.2), 5*time.Second)
	default:
		return minDuration(time.Duration(float64(prev)*1.1), 10*time.Second)
	}
}

// errorPollDelay backs off more aggressively after a transport error.
func errorPollDelay(prev time.Duration) time.Duration {
	return minDuration(prev*2, 15*time.Second)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// EstimateProgress synthesizes a progress percentage from elapsed seconds,
// assuming roughly five minutes of processing. The estimate is capped at 99:
// only an authoritative done response may report completion.
func EstimateProgress(elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	est := int(math.Round(float64(elapsedSeconds) / 300 * 100))
	if est > 99 {
		est = 99
	}
	return est
}

// PollForCompletion polls the status endpoint for sessionID until the backend
// reports the operation finished, then returns that final status. Transport
// errors are retried with doubled delays up to the client's error budget in a
// row. The loop stops with ErrPollTimeout once the attempt budget is spent.
func (c *Client) PollForCompletion(ctx context.Context, sessionID string) (*StatusResponse, error) {
	delay := initialPollDelay
	consecutiveErrors := 0

	for attempts := 0; attempts < c.pollMaxAttempts; attempts++ {
		status, err := c.Status(ctx, sessionID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			consecutiveErrors++
			if consecutiveErrors >= c.pollErrorBudget {
				return nil, fmt.Errorf("%w: %v", ErrTooManyPollErrors, err)
			}
			delay = errorPollDelay(delay)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}
		consecutiveErrors = 0

		// Fill in an estimated progress when the server does not report one.
		if status.Progress == 0 && status.IsProcessing {
			status.Progress = EstimateProgress(status.ElapsedSeconds)
		}

		if !status.IsProcessing {
			return status, nil
		}

		delay = NextPollDelay(time.Duration(status.ElapsedSeconds)*time.Second, delay)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, ErrPollTimeout
}

// ChatAndWait submits a chat message and blocks until the backend finishes
// processing it, polling for completion as needed. Polling failures are not
// surfaced as errors: they are folded into an assistant-style error response
// so callers can render them as a chat message instead of crashing the
// conversation.
func (c *Client) ChatAndWait(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	resp, err := c.Chat(ctx, sessionID, message)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &ChatResponse{
			SessionID:    sessionID,
			Response:     fmt.Sprintf("I'm sorry, I encountered an error: %v. Please try again.", err),
			Stage:        "error",
			SessionState: []byte(`"{}"`),
			Error:        ErrorFlag{Set: true, Message: err.Error()},
		}, nil
	}

	// Legacy path: the call itself returned the final answer.
	if !resp.IsProcessing {
		return resp, nil
	}

	processType := resp.ProcessType
	if processType == "" {
		processType = "chat"
	}

	final, err := c.PollForCompletion(ctx, sessionID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		out := &ChatResponse{
			SessionID:    sessionID,
			Response:     fmt.Sprintf("I encountered an error while processing your request: %v. Please try again.", err),
			Stage:        resp.Stage,
			SessionState: resp.SessionState,
			ProcessType:  processType,
			Error:        ErrorFlag{Set: true, Message: err.Error()},
		}
		if out.Stage == "" {
			out.Stage = "error"
		}
		return out, nil
	}

	out := &ChatResponse{
		SessionID:    sessionID,
		Response:     final.Response,
		Stage:        final.Stage,
		SessionState: final.SessionState,
		ProcessType:  processType,
		Error:        final.Error,
	}
	if out.Stage == "" {
		out.Stage = resp.Stage
	}
	if out.Stage == "" {
		out.Stage = "unknown"
	}
	if len(out.SessionState) == 0 {
		out.SessionState = resp.SessionState
	}
	return out, nil
}

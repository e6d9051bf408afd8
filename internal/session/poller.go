// poller.go runs the screen-level status poll loop. The controller owns at
// most one loop; starting a new one (or switching sessions) bumps a
// generation counter so results from an abandoned loop are discarded instead
// of overwriting newer state.
package session

import (
	"context"
	"time"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/log"
)

const (
	maxScreenPolls     = 180
	screenPollStart    = 1 * time.Second
	screenPollMax      = 5 * time.Second
	screenPollErrorMax = 10 * time.Second
)

// NextScreenPollDelay computes the delay before the next screen poll. Close
// to completion (progress above 70) polling tightens to one second; otherwise
// the delay grows by a fifth each round up to five seconds.
func NextScreenPollDelay(progress int, prev time.Duration) time.Duration {
	if progress > 70 {
		return screenPollStart
	}
	next := time.Duration(float64(prev) * 1.2)
	if next > screenPollMax {
		next = screenPollMax
	}
	return next
}

// screenPollErrorDelay doubles the delay after a failed poll, up to ten
// seconds.
func screenPollErrorDelay(prev time.Duration) time.Duration {
	next := prev * 2
	if next > screenPollErrorMax {
		next = screenPollErrorMax
	}
	return next
}

// startPollingLocked starts the poll loop for the current session, replacing
// any loop already running. Callers hold c.mu.
func (c *Controller) startPollingLocked() {
	c.pollGen++
	if c.pollCancel != nil {
		c.pollCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCancel = cancel
	go c.pollLoop(ctx, c.pollGen, c.sessionID)
}

// stopPollingLocked cancels any active poll loop and invalidates its results.
// Callers hold c.mu.
func (c *Controller) stopPollingLocked() {
	c.pollGen++
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

// pollLoop polls the status endpoint serially until the operation finishes,
// the loop goes stale, or the poll budget runs out.
func (c *Controller) pollLoop(ctx context.Context, gen int, sessionID string) {
	c.logEvent(log.LogEvent{Event: log.EventPollStarted, SessionID: sessionID})
	delay := screenPollStart

	for polls := 0; polls < maxScreenPolls; polls++ {
		status, err := c.client.Status(ctx, sessionID)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			delay = screenPollErrorDelay(delay)
		} else {
			if done := c.applyPoll(gen, status, polls); done {
				return
			}
			progress := status.Progress
			if progress == 0 {
				progress = api.EstimateProgress(status.ElapsedSeconds)
			}
			delay = NextScreenPollDelay(progress, delay)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return
		}
	}

	c.mu.Lock()
	if gen != c.pollGen {
		c.mu.Unlock()
		return
	}
	c.processing = Processing{}
	c.lastError = "The process is taking longer than expected. Please try again."
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	c.mu.Unlock()
	c.notify()
	c.logEvent(log.LogEvent{Event: log.EventPollTimeout, SessionID: sessionID, Polls: maxScreenPolls})
}

// applyPoll folds one status response into the controller. Returns true when
// the loop should stop: the operation finished or the result is stale.
func (c *Controller) applyPoll(gen int, status *api.StatusResponse, polls int) bool {
	c.mu.Lock()
	if gen != c.pollGen {
		c.mu.Unlock()
		return true
	}

	if status.IsProcessing {
		c.processing.Active = true
		if status.ProcessType != "" {
			c.processing.Type = status.ProcessType
		}
		if status.Progress > 0 {
			c.processing.Progress = status.Progress
		} else {
			c.processing.Progress = api.EstimateProgress(status.ElapsedSeconds)
		}
		if status.Message != "" {
			c.processing.Message = status.Message
		}
		c.mu.Unlock()
		c.notify()
		return false
	}

	c.processing = Processing{}
	if st, err := ParseState(status.SessionState); err == nil && st != nil {
		c.adoptStateLocked(st)
	}
	if status.Response != "" {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: status.Response})
	}
	// The loop is done; release its context before dropping the cancel func.
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	sessionID := c.sessionID
	c.mu.Unlock()
	c.notify()
	c.logEvent(log.LogEvent{Event: log.EventPollDone, SessionID: sessionID, Polls: polls + 1})
	return true
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

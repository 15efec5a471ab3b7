package main

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/warbound-games/gauntlet/internal/events"
)

// progressUpdateInterval spaces the per-match progress lines; a batch
// session can finish hundreds of matches per second.
const progressUpdateInterval = 200 * time.Millisecond

// progressObserver prints session progress to the terminal. Per-match
// updates are rate limited; session boundaries and the final match
// always print.
type progressObserver struct {
	out     io.Writer
	limiter *rate.Limiter
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{
		out:     out,
		limiter: rate.NewLimiter(rate.Every(progressUpdateInterval), 1),
	}
}

func (p *progressObserver) Name() string {
	return "ProgressObserver"
}

func (p *progressObserver) ShouldHandle(eventType string) bool {
	switch eventType {
	case events.TypeSessionStarted, events.TypeMatchCompleted,
		events.TypeSessionCompleted, events.TypeSessionAborted,
		events.TypeWatchTriggered:
		return true
	}
	return false
}

func (p *progressObserver) OnEvent(event events.Event) error {
	switch event.Type {
	case events.TypeSessionStarted:
		if d, ok := events.Payload[events.SessionStartedEvent](event); ok {
			fmt.Fprintf(p.out, "Session %s: %d matches, base seed %d\n", d.SessionID, d.Matches, d.BaseSeed)
		}
	case events.TypeMatchCompleted:
		d, ok := events.Payload[events.MatchCompletedEvent](event)
		if !ok {
			return nil
		}
		last := d.Index+1 == d.Total
		if !last && !p.limiter.Allow() {
			return nil
		}
		// Carriage return keeps progress on one line; padding clears
		// leftovers from a longer previous message.
		fmt.Fprintf(p.out, "\r  match %d/%d  %-28s", d.Index+1, d.Total, describeMatch(d))
		if last {
			fmt.Fprintln(p.out)
		}
	case events.TypeSessionCompleted:
		if d, ok := events.Payload[events.SessionCompletedEvent](event); ok {
			fmt.Fprintf(p.out, "Session complete: %d matches, %d draws, %d errors in %.1fs\n",
				d.Completed, d.Draws, d.Errors, d.Duration)
		}
	case events.TypeSessionAborted:
		if d, ok := events.Payload[events.SessionAbortedEvent](event); ok {
			fmt.Fprintf(p.out, "\nSession aborted after %d of %d matches\n", d.Completed, d.Total)
		}
	case events.TypeWatchTriggered:
		if d, ok := events.Payload[events.WatchTriggeredEvent](event); ok {
			fmt.Fprintf(p.out, "\nCard data changed (%s), re-running session...\n", d.Path)
		}
	}
	return nil
}

// describeMatch renders one match completion for the progress line.
func describeMatch(d events.MatchCompletedEvent) string {
	if d.Failed {
		return "failed (see log)"
	}
	if d.Winner == 0 {
		return fmt.Sprintf("draw in %d rounds", d.Rounds)
	}
	return fmt.Sprintf("p%d wins in %d rounds", d.Winner, d.Rounds)
}

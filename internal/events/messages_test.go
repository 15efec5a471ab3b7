package events

import (
	"context"
	"testing"
)

func TestNewEvent(t *testing.T) {
	ctx := context.Background()

	event := New(TypeMatchCompleted, MatchCompletedEvent{
		Index:  3,
		Total:  50,
		Winner: 1,
		Rounds: 12,
	}, ctx)

	if event.Type != TypeMatchCompleted {
		t.Errorf("event.Type = %q, want %q", event.Type, TypeMatchCompleted)
	}

	typed, ok := event.Data.(MatchCompletedEvent)
	if !ok {
		t.Fatalf("event.Data has type %T, want MatchCompletedEvent", event.Data)
	}
	if typed.Index != 3 || typed.Winner != 1 {
		t.Errorf("payload = %+v, want Index=3 Winner=1", typed)
	}
}

func TestPayload(t *testing.T) {
	ctx := context.Background()
	event := New(TypeSessionStarted, SessionStartedEvent{
		SessionID: "abc",
		BaseSeed:  12345,
		Matches:   50,
	}, ctx)

	data, ok := Payload[SessionStartedEvent](event)
	if !ok {
		t.Fatal("Payload() failed for matching type")
	}
	if data.BaseSeed != 12345 {
		t.Errorf("BaseSeed = %d, want 12345", data.BaseSeed)
	}

	if _, ok := Payload[MatchCompletedEvent](event); ok {
		t.Error("Payload() succeeded for wrong type")
	}
}

func TestPayloadNilData(t *testing.T) {
	if _, ok := Payload[SessionStartedEvent](Event{Type: "test"}); ok {
		t.Error("Payload() succeeded for nil data")
	}
}

type countingObserver struct {
	name  string
	seen  []string
	fail  bool
	count int
}

func (o *countingObserver) OnEvent(event Event) error {
	o.count++
	o.seen = append(o.seen, event.Type)
	if o.fail {
		return context.Canceled
	}
	return nil
}

func (o *countingObserver) Name() string { return o.name }

func (o *countingObserver) ShouldHandle(string) bool { return true }

func TestDispatcherNotifiesInOrder(t *testing.T) {
	d := NewDispatcher()
	first := &countingObserver{name: "first"}
	second := &countingObserver{name: "second", fail: true}
	third := &countingObserver{name: "third"}
	d.Register(first)
	d.Register(second)
	d.Register(third)

	d.Dispatch(New(TypeSessionStarted, SessionStartedEvent{}, context.Background()))
	d.Dispatch(New(TypeSessionCompleted, SessionCompletedEvent{}, context.Background()))

	for _, obs := range []*countingObserver{first, second, third} {
		if obs.count != 2 {
			t.Errorf("observer %s saw %d events, want 2", obs.name, obs.count)
		}
	}
	// A failing observer must not block the ones after it.
	if third.seen[0] != TypeSessionStarted || third.seen[1] != TypeSessionCompleted {
		t.Errorf("third.seen = %v, want both events in order", third.seen)
	}
}

func TestDispatcherUnregister(t *testing.T) {
	d := NewDispatcher()
	obs := &countingObserver{name: "only"}
	d.Register(obs)
	if d.ObserverCount() != 1 {
		t.Fatalf("ObserverCount() = %d, want 1", d.ObserverCount())
	}

	d.Unregister(obs)
	d.Dispatch(New(TypeMatchStarted, MatchStartedEvent{}, context.Background()))

	if obs.count != 0 {
		t.Errorf("unregistered observer saw %d events, want 0", obs.count)
	}
}

func TestFuncObserverFiltersTypes(t *testing.T) {
	var got []string
	obs := NewFuncObserver("progress", func(e Event) error {
		got = append(got, e.Type)
		return nil
	}, TypeMatchCompleted)

	d := NewDispatcher()
	d.Register(obs)
	d.Dispatch(New(TypeSessionStarted, SessionStartedEvent{}, context.Background()))
	d.Dispatch(New(TypeMatchCompleted, MatchCompletedEvent{Index: 0}, context.Background()))
	d.Dispatch(New(TypeSessionCompleted, SessionCompletedEvent{}, context.Background()))

	if len(got) != 1 || got[0] != TypeMatchCompleted {
		t.Errorf("filtered observer saw %v, want [%s]", got, TypeMatchCompleted)
	}
}

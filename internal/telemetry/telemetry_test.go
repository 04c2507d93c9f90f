package telemetry

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// readEvents decodes every line of the JSONL file at path.
func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var evt Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			t.Fatalf("line %d is not an event: %v\n%s", len(events)+1, err, sc.Text())
		}
		events = append(events, evt)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan %s: %v", path, err)
	}
	return events
}

func openEmitter(t *testing.T) (*Emitter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	em, err := NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	return em, path
}

func TestEmitter_RecordsQueryOutcomes(t *testing.T) {
	t.Parallel()
	em, path := openEmitter(t)

	at := time.Date(2022, 1, 14, 12, 0, 0, 0, time.UTC)
	in := []Event{
		{Timestamp: at, Kind: KindTableLoaded, Source: "retrogrades.toml", Data: map[string]int{"entries": 38}},
		{Timestamp: at, Kind: KindQueryHit, Source: "retrogrades.toml", Query: "1642118400", Bodies: []string{"Mercury", "Venus", "Uranus"}},
		{Timestamp: at, Kind: KindQueryMiss, Source: "retrogrades.toml", Query: "1"},
		{Timestamp: at, Kind: KindQueryInvalid, Source: "retrogrades.toml", Query: "noon"},
	}
	for _, evt := range in {
		if err := em.Emit(evt); err != nil {
			t.Fatalf("Emit(%s): %v", evt.Kind, err)
		}
	}
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEvents(t, path)
	if len(got) != len(in) {
		t.Fatalf("read %d events, want %d", len(got), len(in))
	}
	for i, evt := range got {
		want := in[i]
		if evt.Kind != want.Kind || evt.Query != want.Query || !evt.Timestamp.Equal(want.Timestamp) {
			t.Errorf("event %d = {%s %q %v}, want {%s %q %v}",
				i, evt.Kind, evt.Query, evt.Timestamp, want.Kind, want.Query, want.Timestamp)
		}
		if strings.Join(evt.Bodies, ",") != strings.Join(want.Bodies, ",") {
			t.Errorf("event %d bodies = %v, want %v", i, evt.Bodies, want.Bodies)
		}
	}
	if data, ok := got[0].Data.(map[string]any); !ok || data["entries"] != float64(38) {
		t.Errorf("table_loaded data = %v, want entries=38", got[0].Data)
	}
}

func TestEmitter_AppendsAcrossRuns(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "events.jsonl")

	for _, kind := range []string{KindTableLoaded, KindTableReloaded} {
		em, err := NewEmitter(path)
		if err != nil {
			t.Fatalf("NewEmitter: %v", err)
		}
		if err := em.Emit(Event{Kind: kind}); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if err := em.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	got := readEvents(t, path)
	if len(got) != 2 || got[0].Kind != KindTableLoaded || got[1].Kind != KindTableReloaded {
		t.Errorf("events = %+v, want table_loaded then table_reloaded", got)
	}
}

func TestEmitter_ConcurrentEmitKeepsLinesWhole(t *testing.T) {
	t.Parallel()
	em, path := openEmitter(t)

	const writers, each = 8, 25
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range each {
				evt := Event{Kind: KindQueryHit, Data: map[string]int{"writer": w, "seq": i}}
				if err := em.Emit(evt); err != nil {
					t.Errorf("Emit: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := readEvents(t, path); len(got) != writers*each {
		t.Errorf("read %d events, want %d", len(got), writers*each)
	}
}

func TestEmitter_FillsTimestamp(t *testing.T) {
	t.Parallel()
	em, path := openEmitter(t)

	before := time.Now().Add(-time.Second)
	if err := em.Emit(Event{Kind: KindReloadFailed}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	em.Close()

	got := readEvents(t, path)
	if len(got) != 1 || got[0].Timestamp.Before(before) {
		t.Errorf("events = %+v, want one event stamped after %v", got, before)
	}
}

func TestEmitter_OmitsEmptyFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Event{Kind: KindQueryMiss})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{`"source"`, `"query"`, `"bodies"`, `"data"`} {
		if strings.Contains(string(data), field) {
			t.Errorf("%s present in %s", field, data)
		}
	}
}

func TestEmitter_Closed(t *testing.T) {
	t.Parallel()
	em, _ := openEmitter(t)

	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := em.Emit(Event{Kind: KindQueryHit}); !errors.Is(err, ErrClosed) {
		t.Errorf("Emit after Close = %v, want ErrClosed", err)
	}

	var none *Emitter
	if err := none.Emit(Event{Kind: KindQueryHit}); err != nil {
		t.Errorf("nil Emit = %v", err)
	}
	if err := none.Close(); err != nil {
		t.Errorf("nil Close = %v", err)
	}
}

func TestNewEmitter_BadPath(t *testing.T) {
	t.Parallel()

	_, err := NewEmitter(filepath.Join(t.TempDir(), "missing", "events.jsonl"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("NewEmitter error = %v, want os.ErrNotExist", err)
	}
}

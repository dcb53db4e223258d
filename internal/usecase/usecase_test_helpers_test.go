package usecase

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"GoldenGai-App/internal/domain/event"
	"GoldenGai-App/internal/domain/helper"
	"GoldenGai-App/internal/domain/repository"
	"GoldenGai-App/internal/infrastructure/metrics"
	repoimpl "GoldenGai-App/internal/repository"
)

const sampleGridJSON = `{
  "metadata": {"title": "Golden Gai", "date": "2024-05-01"},
  "map": [
    ["翁", "翁", "", "流民"],
    ["", "", "", "流民"],
    ["Bar A", "", "Bar B", ""]
  ]
}`

type testDeps struct {
	venues     repository.VenuesRepository
	images     repository.ImageRepository
	translator *helper.NameTranslator
	bus        *event.Bus
	metrics    *metrics.Metrics
	recorder   *eventRecorder
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	images, err := repoimpl.NewFSImageRepository(t.TempDir())
	require.NoError(t, err)
	translator, err := helper.NewNameTranslator()
	require.NoError(t, err)

	bus := event.NewBus()
	return &testDeps{
		venues:     repoimpl.NewMemoryVenuesRepository(),
		images:     images,
		translator: translator,
		bus:        bus,
		metrics:    metrics.New(prometheus.NewRegistry()),
		recorder:   recordEvents(bus),
	}
}

// eventRecorder バスに流れたイベントを記録する
type eventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func recordEvents(bus *event.Bus) *eventRecorder {
	rec := &eventRecorder{}
	handler := func(ev event.Event) {
		rec.mu.Lock()
		rec.events = append(rec.events, ev)
		rec.mu.Unlock()
	}
	for _, topic := range []event.Topic{event.TopicVenuesReplaced, event.TopicVenueUpdated, event.TopicImageUpdated, event.TopicHighlightVenue} {
		bus.Subscribe(topic, handler)
	}
	return rec
}

func (r *eventRecorder) ofTopic(topic event.Topic) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []event.Event
	for _, ev := range r.events {
		if ev.Topic() == topic {
			matched = append(matched, ev)
		}
	}
	return matched
}

package eventsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/trezcool/findgreatschool/core"
)

// LogPublisher logs events at debug level. Used when no broker is configured.
type LogPublisher struct {
	logger core.Logger
}

var _ core.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger core.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, events ...core.Event) {
	for _, ev := range events {
		p.logger.Debug(fmt.Sprintf("event %s [%s]", ev.Type, ev.Key), ev.Data)
	}
}

// MemoryPublisher keeps published events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []core.Event
}

var _ core.EventPublisher = (*MemoryPublisher)(nil)

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, events ...core.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

// Events returns the published events, oldest first.
func (p *MemoryPublisher) Events() []core.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.Event{}, p.events...)
}

// OfType returns the published events of type typ.
func (p *MemoryPublisher) OfType(typ string) []core.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var evs []core.Event
	for _, ev := range p.events {
		if ev.Type == typ {
			evs = append(evs, ev)
		}
	}
	return evs
}

// Package events publishes table state transitions on a typed event bus so
// observers can follow searches, sorts, page changes, selection and editing
// without being wired in as the controlling callback.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	goevents "github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType identifies a table event.
type EventType string

const (
	SearchSettled          EventType = "search:settled"
	SortChange             EventType = "sort:change"
	FilterChange           EventType = "filter:change"
	PageChange             EventType = "page:change"
	PageSizeChange         EventType = "pagesize:change"
	SelectionChange        EventType = "selection:change"
	EditStart              EventType = "edit:start"
	EditCancel             EventType = "edit:cancel"
	EditSave               EventType = "edit:save"
	EditInvalid            EventType = "edit:invalid"
	EditDiscard            EventType = "edit:discard"
	RowsReplace            EventType = "rows:replace"
	SubscriptionRegister   EventType = "subscription:register"
	SubscriptionUnregister EventType = "subscription:unregister"
)

// TableEvent is the payload delivered to subscribers.
type TableEvent struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`        // Unix milliseconds.
	Table     string    `json:"table,omitempty"`  // Name of the emitting table.
	Input     any       `json:"input,omitempty"`  // The requested transition.
	Output    any       `json:"output,omitempty"` // The resulting state, when it changed locally.
	Error     *string   `json:"error,omitempty"`
}

// CallbackFunction handles a delivered event.
type CallbackFunction func(ctx context.Context, event TableEvent) error

// RegisterSubscriptionOptions defines options for registering a subscription.
type RegisterSubscriptionOptions struct {
	Event       EventType `json:"event"`
	Label       *string   `json:"label,omitempty"`
	Description *string   `json:"description,omitempty"`
	Callback    CallbackFunction
}

// SubscriptionInfo describes an active subscription.
type SubscriptionInfo struct {
	Id          *string   `json:"id"`
	Event       EventType `json:"event"`
	Label       *string   `json:"label,omitempty"`
	Description *string   `json:"description,omitempty"`
	Unsubscribe func()    `json:"-"`
}

// Bus fans table events out to subscribers.
type Bus struct {
	name          string
	bus           *goevents.TypedEventBus[TableEvent]
	subMu         sync.RWMutex
	subscriptions map[string]*SubscriptionInfo
	logger        *zap.Logger
}

// NewBus creates a bus for the named table.
func NewBus(name string, logger *zap.Logger) (*Bus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus, err := goevents.NewTypedEventBus[TableEvent](goevents.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	return &Bus{
		name:          name,
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
		logger:        logger,
	}, nil
}

// Emit publishes an event. A nil bus drops it.
func (b *Bus) Emit(eventType EventType, input, output any) {
	if b == nil || b.bus == nil {
		return
	}
	b.bus.Emit(string(eventType), createEvent(eventType, b.name, input, output, nil))
}

// EmitError publishes an event carrying an error message.
func (b *Bus) EmitError(eventType EventType, input any, err error) {
	if b == nil || b.bus == nil || err == nil {
		return
	}
	msg := err.Error()
	b.bus.Emit(string(eventType), createEvent(eventType, b.name, input, nil, &msg))
}

// RegisterSubscription registers a callback for an event type. It returns a
// unique ID that can be used to unregister the subscription later.
func (b *Bus) RegisterSubscription(options RegisterSubscriptionOptions) string {
	b.subMu.Lock()
	unsubscribe := b.bus.Subscribe(string(options.Event), options.Callback)
	id := uuid.New().String()
	b.subscriptions[id] = &SubscriptionInfo{
		Id:          &id,
		Event:       options.Event,
		Unsubscribe: unsubscribe,
		Label:       options.Label,
		Description: options.Description,
	}
	b.subMu.Unlock()

	b.logger.Info("Registered subscription", zap.String("id", id), zap.String("event", string(options.Event)))
	b.Emit(SubscriptionRegister, map[string]any{"event": options.Event}, map[string]any{"subscriptionId": id})
	return id
}

// UnregisterSubscription removes a subscription by its ID.
func (b *Bus) UnregisterSubscription(id string) {
	b.subMu.Lock()
	info, ok := b.subscriptions[id]
	if ok {
		info.Unsubscribe()
		delete(b.subscriptions, id)
	}
	b.subMu.Unlock()

	if ok {
		b.logger.Info("Unregistered subscription", zap.String("id", id))
		b.Emit(SubscriptionUnregister, map[string]any{"subscriptionId": id}, nil)
	}
}

// Subscriptions returns a list of all currently active subscriptions.
func (b *Bus) Subscriptions() []SubscriptionInfo {
	b.subMu.RLock()
	defer b.subMu.RUnlock()

	subs := make([]SubscriptionInfo, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		subs = append(subs, *sub)
	}
	return subs
}

// UnregisterAll removes every subscription.
func (b *Bus) UnregisterAll() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for id, info := range b.subscriptions {
		info.Unsubscribe()
		delete(b.subscriptions, id)
	}
}

func createEvent(eventType EventType, table string, input, output any, errMsg *string) TableEvent {
	return TableEvent{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Table:     table,
		Input:     input,
		Output:    output,
		Error:     errMsg,
	}
}

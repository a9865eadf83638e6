package models

import "time"

// Event types
const (
	EventTypeDealCreated      = "DEAL_CREATED"
	EventTypeDealStageChanged = "DEAL_STAGE_CHANGED"
	EventTypeDealDeleted      = "DEAL_DELETED"
	EventTypeCustomerCreated  = "CUSTOMER_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// DealCreatedEvent published when a deal is created
type DealCreatedEvent struct {
	BaseEvent
	DealID     int64   `json:"deal_id"`
	CustomerID *int64  `json:"customer_id"`
	Title      string  `json:"title"`
	Value      float64 `json:"value"`
	Stage      string  `json:"stage"`
}

// DealStageChangedEvent published when the transition engine moves a deal
type DealStageChangedEvent struct {
	BaseEvent
	DealID      int64  `json:"deal_id"`
	CustomerID  *int64 `json:"customer_id"`
	Title       string `json:"title"`
	FromStage   string `json:"from_stage"`
	ToStage     string `json:"to_stage"`
	Probability int    `json:"probability"`
	Direction   string `json:"direction"`
}

// DealDeletedEvent published when a deal is removed
type DealDeletedEvent struct {
	BaseEvent
	DealID int64 `json:"deal_id"`
}

// CustomerCreatedEvent published when a customer record is added
type CustomerCreatedEvent struct {
	BaseEvent
	CustomerID int64  `json:"customer_id"`
	Username   string `json:"username"`
	Service    string `json:"service"`
}

package store

// Variant labels for the two-arm experiment.
const (
	VariantA = "a"
	VariantB = "b"
)

// PeriodTotal is the all-time aggregation window. Daily windows use
// UTC calendar dates formatted as YYYY-MM-DD.
const PeriodTotal = "total"

// Event types that affect aggregates. Any other value is stored as a
// raw event and ignored by the counters.
const (
	EventImpression = "impression"
	EventConversion = "conversion"
)

// Metric hash fields.
const (
	FieldImpressions = "impressions"
	FieldConversions = "conversions"
)

// Unique-visitor set kinds.
const (
	SetVisitors   = "visitors"
	SetConverters = "converters"
)

// Lead statuses. StatusPendingCall is set on creation; CallStatusFailed
// is synthesized locally when the call trigger fails. Other call
// statuses are provider-defined strings copied verbatim.
const (
	StatusPendingCall = "pending_call"
	CallStatusFailed  = "failed"
)

// Event is a raw tracking event. The ID is the storage key and is not
// part of the persisted document.
type Event struct {
	ID              string `json:"-"`
	EventType       string `json:"eventType"`
	Variant         string `json:"variant"`
	VisitorID       string `json:"visitorId"`
	Timestamp       string `json:"timestamp,omitempty"`
	UserAgent       string `json:"userAgent,omitempty"`
	Referrer        string `json:"referrer,omitempty"`
	IP              string `json:"ip,omitempty"`
	ServerTimestamp string `json:"serverTimestamp,omitempty"`
	StoredAt        string `json:"storedAt,omitempty"`
}

// Lead is a captured prospect record. Created with StatusPendingCall,
// updated at most once more with the provider call outcome, never
// deleted.
type Lead struct {
	ID           string `json:"-"`
	Phone        string `json:"phone"`
	Variant      string `json:"variant"`
	VisitorID    string `json:"visitorId"`
	Timestamp    string `json:"timestamp"`
	UserAgent    string `json:"userAgent"`
	Referrer     string `json:"referrer"`
	URL          string `json:"url"`
	IP           string `json:"ip,omitempty"`
	CreatedAt    string `json:"createdAt"`
	Status       string `json:"status"`
	RetellCallID string `json:"retellCallId,omitempty"`
	CallStatus   string `json:"callStatus,omitempty"`
}

// VariantMetrics holds the aggregate counters for one (period, variant)
// pair.
type VariantMetrics struct {
	Impressions int64
	Conversions int64
}

// Package leads runs the submission workflow: validate the phone,
// persist the lead, trigger the outbound call, reconcile the outcome.
// Persistence happens before the call attempt so a provider failure can
// never lose a captured lead.
package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadline-hq/leadline/internal/ids"
	"github.com/leadline-hq/leadline/internal/phone"
	"github.com/leadline-hq/leadline/internal/retell"
	"github.com/leadline-hq/leadline/internal/store"
)

// Caller triggers the outbound call. Satisfied by *retell.Client.
type Caller interface {
	CreatePhoneCall(ctx context.Context, toNumber string, meta retell.Metadata) (*retell.CallResponse, error)
}

// Submission carries the form payload plus server-derived metadata.
type Submission struct {
	Phone     string
	Variant   string
	VisitorID string
	Timestamp string
	UserAgent string
	Referrer  string
	URL       string
	IP        string
}

// Result is the caller-facing outcome. Success is true whenever the
// lead was persisted, even if the call trigger failed; CallStatus
// "failed" with an empty CallID marks that partial success.
type Result struct {
	Success    bool   `json:"success"`
	LeadID     string `json:"leadId"`
	CallID     string `json:"callId,omitempty"`
	Message    string `json:"message"`
	CallStatus string `json:"callStatus,omitempty"`
}

type Pipeline struct {
	store  store.Store
	caller Caller
	log    zerolog.Logger
	now    func() time.Time
}

func New(s store.Store, caller Caller, log zerolog.Logger) *Pipeline {
	return &Pipeline{store: s, caller: caller, log: log, now: time.Now}
}

// Submit validates and runs the pipeline. Validation failures return
// phone.ErrRequired or phone.ErrInvalidFormat; a storage failure is the
// only other error. Call-trigger failures are not errors.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if err := phone.Validate(sub.Phone); err != nil {
		return nil, err
	}

	lead := p.buildLead(sub)
	if err := p.store.SaveLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("storing lead: %w", err)
	}
	p.log.Info().Str("lead_id", lead.ID).Str("variant", lead.Variant).Msg("lead stored")

	call, err := p.caller.CreatePhoneCall(ctx, phone.Normalize(sub.Phone), retell.Metadata{
		LeadSource: "landing_page",
		Variant:    lead.Variant,
		VisitorID:  lead.VisitorID,
		Timestamp:  lead.Timestamp,
	})
	if err != nil {
		// Lead is already persisted; degrade to a partial success.
		p.log.Error().Err(err).Str("lead_id", lead.ID).Msg("call trigger failed")
		return &Result{
			Success:    true,
			LeadID:     lead.ID,
			Message:    "Lead captured, but call initiation failed. We will contact you soon.",
			CallStatus: store.CallStatusFailed,
		}, nil
	}

	p.reconcile(ctx, lead.ID, call)

	return &Result{
		Success: true,
		LeadID:  lead.ID,
		CallID:  call.CallID,
		Message: "Call initiated successfully",
	}, nil
}

func (p *Pipeline) buildLead(sub Submission) *store.Lead {
	now := p.now().UTC().Format(time.RFC3339)

	variant := sub.Variant
	if variant == "" {
		variant = "unknown"
	}
	visitorID := sub.VisitorID
	if visitorID == "" {
		visitorID = "unknown"
	}
	timestamp := sub.Timestamp
	if timestamp == "" {
		timestamp = now
	}
	referrer := sub.Referrer
	if referrer == "" {
		referrer = "direct"
	}

	return &store.Lead{
		ID:        ids.New("lead"),
		Phone:     sub.Phone,
		Variant:   variant,
		VisitorID: visitorID,
		Timestamp: timestamp,
		UserAgent: sub.UserAgent,
		Referrer:  referrer,
		URL:       sub.URL,
		IP:        sub.IP,
		CreatedAt: now,
		Status:    store.StatusPendingCall,
	}
}

// reconcile attaches the provider call id and status to the stored
// lead. Best effort: the success response is already decided, so a
// failure here is logged and dropped.
func (p *Pipeline) reconcile(ctx context.Context, leadID string, call *retell.CallResponse) {
	lead, err := p.store.Lead(ctx, leadID)
	if err != nil {
		p.log.Warn().Err(err).Str("lead_id", leadID).Msg("lead reload for reconciliation failed")
		return
	}
	lead.RetellCallID = call.CallID
	lead.CallStatus = call.CallStatus
	if err := p.store.UpdateLead(ctx, lead); err != nil {
		p.log.Warn().Err(err).Str("lead_id", leadID).Msg("lead call-status update failed")
	}
}

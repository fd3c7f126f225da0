package sos

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/internal/platform/notification"
	ws "github.com/bloodlink/bloodlink/internal/platform/websocket"
)

// DonorContact is the contact slice of a donor profile needed for alerting.
type DonorContact struct {
	Name       string
	Phone      string
	Email      string
	BloodGroup blood.Group
}

// DonorFinder lists registered donors whose blood group is in groups.
type DonorFinder interface {
	ListByGroups(ctx context.Context, groups []blood.Group) ([]DonorContact, error)
}

// NotifyAdapter implements Notifier on top of the websocket hub and the
// notification manager, bridging the domain and platform layers. Event
// delivery is best effort: a failed broadcast or alert is logged, never
// surfaced to the caller.
type NotifyAdapter struct {
	hub    ws.EventPublisher
	mgr    *notification.Manager
	donors DonorFinder
	log    zerolog.Logger
}

func NewNotifyAdapter(hub ws.EventPublisher, mgr *notification.Manager, donors DonorFinder, log zerolog.Logger) *NotifyAdapter {
	return &NotifyAdapter{hub: hub, mgr: mgr, donors: donors, log: log}
}

var _ Notifier = (*NotifyAdapter)(nil)

// RequestCreated fans the new request out to the pending feed of every donor
// group that may supply it, and alerts matching registered donors by email
// and SMS.
func (a *NotifyAdapter) RequestCreated(ctx context.Context, r *SosRequest) {
	payload, _ := json.Marshal(r)
	donorGroups := blood.CompatibleDonors(r.BloodGroup)

	if a.hub != nil {
		for _, g := range donorGroups {
			a.publish(ctx, ws.Event{
				Type:      "sos.created",
				Topic:     ws.PendingTopic(string(g)),
				RequestID: r.ID.String(),
				Status:    string(r.Status),
				Timestamp: time.Now(),
				Data:      payload,
			})
		}
		a.publish(ctx, ws.Event{
			Type:      "sos.created",
			Topic:     ws.HospitalTopic(r.HospitalID),
			RequestID: r.ID.String(),
			Status:    string(r.Status),
			Timestamp: time.Now(),
			Data:      payload,
		})
	}

	if a.mgr == nil || a.donors == nil {
		return
	}
	contacts, err := a.donors.ListByGroups(ctx, donorGroups)
	if err != nil {
		a.log.Error().Err(err).Str("request_id", r.ID.String()).Msg("list eligible donors for alert")
		return
	}
	data := map[string]string{
		"blood_group":   string(r.BloodGroup),
		"units":         strconv.Itoa(r.Units),
		"urgency":       string(r.Urgency),
		"hospital_name": r.HospitalName,
		"hospital_city": r.HospitalCity,
	}
	for _, c := range contacts {
		if c.Email != "" {
			if _, err := a.mgr.SendFromTemplate(ctx, notification.TypeEmail, "sos_alert", data, c.Email); err != nil {
				a.log.Warn().Err(err).Str("recipient", c.Email).Msg("sos alert email failed")
			}
		}
		if c.Phone != "" {
			if _, err := a.mgr.SendFromTemplate(ctx, notification.TypeSMS, "sos_alert", data, c.Phone); err != nil {
				a.log.Warn().Err(err).Str("recipient", c.Phone).Msg("sos alert sms failed")
			}
		}
	}
}

// RequestTransitioned pushes the status change to subscribers of the request
// and of the raising hospital.
func (a *NotifyAdapter) RequestTransitioned(ctx context.Context, r *SosRequest) {
	if a.hub == nil {
		return
	}
	payload, _ := json.Marshal(r)
	ev := ws.Event{
		Type:      "sos.status_changed",
		RequestID: r.ID.String(),
		Status:    string(r.Status),
		Timestamp: time.Now(),
		Data:      payload,
	}
	ev.Topic = ws.RequestTopic(r.ID.String())
	a.publish(ctx, ev)
	ev.Topic = ws.HospitalTopic(r.HospitalID)
	a.publish(ctx, ev)
}

func (a *NotifyAdapter) publish(ctx context.Context, ev ws.Event) {
	if err := a.hub.Publish(ctx, ev); err != nil {
		a.log.Warn().Err(err).Str("topic", ev.Topic).Msg("broadcast failed")
	}
}

package domain

import "time"

type TimelinePhase string

const (
	PhasePlanned    TimelinePhase = "planned"
	PhaseProcessing TimelinePhase = "processing"
	PhaseTransit    TimelinePhase = "transit"
	PhaseCompleted  TimelinePhase = "completed"
)

const plannedWindow = 60 * 24 * time.Hour

type TimelineSegment struct {
	OrderID uint64
	Name    string
	Status  OrderStatus
	Phase   TimelinePhase
	Start   time.Time
	End     time.Time
}

// ProjectTimeline derives display intervals from milestone dates. It never
// mutates the orders.
func ProjectTimeline(orders []*Order, now time.Time) []TimelineSegment {
	segments := make([]TimelineSegment, 0, len(orders))
	for _, o := range orders {
		segments = append(segments, projectOrder(o, now)...)
	}
	return segments
}

func projectOrder(o *Order, now time.Time) []TimelineSegment {
	seg := func(phase TimelinePhase, start, end time.Time) TimelineSegment {
		if end.Before(start) {
			end = start
		}
		return TimelineSegment{OrderID: o.ID, Name: o.Name, Status: o.Status, Phase: phase, Start: start, End: end}
	}
	m := o.Milestones

	if o.Status == StatusNotStarted || !o.Status.Valid() {
		end := valueOr(m.ArrivalExpected, now.Add(plannedWindow))
		return []TimelineSegment{seg(PhasePlanned, end.Add(-plannedWindow), end)}
	}

	start := valueOr(m.ConfirmedAt, o.CreatedAt)
	if o.Completed() {
		return []TimelineSegment{seg(PhaseCompleted, start, valueOr(m.ArrivedAt, now))}
	}

	boundary := start.Add(confirmationToShipment)
	if m.ShippedAt != nil {
		boundary = *m.ShippedAt
	} else if m.ShipmentExpected != nil {
		boundary = *m.ShipmentExpected
	}
	arrival := valueOr(m.ArrivalExpected, boundary.Add(shipmentToArrival))

	return []TimelineSegment{
		seg(PhaseProcessing, start, boundary),
		seg(PhaseTransit, boundary, arrival),
	}
}

func valueOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}
	return *t
}

package services

import (
	"context"
	"errors"

	"midway/internal/core/domain"
	"midway/pkg/validation"
)

// BookingStatusCheck lets staff move a booking through any status. Other
// callers always create PENDING bookings and may only change the status of
// an existing one to CANCELLED.
func BookingStatusCheck() WriteCheck[*domain.Booking] {
	return func(ctx context.Context, w Write[*domain.Booking]) error {
		if w.Principal.IsStaff() {
			return nil
		}
		b := w.Entity
		if w.Create {
			b.Status = domain.BookingPending
			return nil
		}
		if string(b.Status) != w.PreviousStatus && b.Status != domain.BookingCancelled {
			return fieldError("status", "only staff can change a booking to "+string(b.Status))
		}
		return nil
	}
}

// PaymentCheck requires new payments to reference a booking the caller can
// see. Payments recorded by clients always start PENDING.
func PaymentCheck(bookings *ResourceService[*domain.Booking]) WriteCheck[*domain.Payment] {
	return func(ctx context.Context, w Write[*domain.Payment]) error {
		if !w.Create {
			return nil
		}
		if !w.Principal.IsStaff() {
			w.Entity.Status = domain.PaymentPending
		}
		return requireVisibleBooking(ctx, bookings, w.Principal, w.Entity.BookingID)
	}
}

// FeedbackCheck requires new feedback to reference a booking the caller can
// see.
func FeedbackCheck(bookings *ResourceService[*domain.Booking]) WriteCheck[*domain.Feedback] {
	return func(ctx context.Context, w Write[*domain.Feedback]) error {
		if !w.Create {
			return nil
		}
		return requireVisibleBooking(ctx, bookings, w.Principal, w.Entity.BookingID)
	}
}

// requireVisibleBooking reports a missing booking and someone else's booking
// the same way.
func requireVisibleBooking(ctx context.Context, bookings *ResourceService[*domain.Booking], principal *domain.Principal, id string) error {
	_, err := bookings.Get(ctx, principal, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fieldError("bookingId", "booking not found")
	}
	return err
}

func fieldError(field, reason string) error {
	fe := validation.FieldErrors{}
	fe[field] = reason
	return fe.Err()
}

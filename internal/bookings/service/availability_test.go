package service

import (
	"context"
	"testing"
	"time"

	apperrors "homelet/pkg/errors"
	"homelet/pkg/model"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{
			name:   "disjoint before",
			start1: "2024-06-01", end1: "2024-06-05",
			start2: "2024-06-06", end2: "2024-06-10",
			want: false,
		},
		{
			name:   "disjoint after",
			start1: "2024-06-06", end1: "2024-06-10",
			start2: "2024-06-01", end2: "2024-06-05",
			want: false,
		},
		{
			name:   "shared boundary day",
			start1: "2024-06-01", end1: "2024-06-05",
			start2: "2024-06-05", end2: "2024-06-10",
			want: true,
		},
		{
			name:   "shared boundary day reversed",
			start1: "2024-06-05", end1: "2024-06-10",
			start2: "2024-06-01", end2: "2024-06-05",
			want: true,
		},
		{
			name:   "partial overlap",
			start1: "2024-06-01", end1: "2024-06-07",
			start2: "2024-06-05", end2: "2024-06-12",
			want: true,
		},
		{
			name:   "containment",
			start1: "2024-06-01", end1: "2024-06-30",
			start2: "2024-06-10", end2: "2024-06-12",
			want: true,
		},
		{
			name:   "identical intervals",
			start1: "2024-06-01", end1: "2024-06-05",
			start2: "2024-06-01", end2: "2024-06-05",
			want: true,
		},
		{
			name:   "single day inside range",
			start1: "2024-06-03", end1: "2024-06-03",
			start2: "2024-06-01", end2: "2024-06-05",
			want: true,
		},
		{
			name:   "single day outside range",
			start1: "2024-06-07", end1: "2024-06-07",
			start2: "2024-06-01", end2: "2024-06-05",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.start1), day(tt.end1), day(tt.start2), day(tt.end2))
			if got != tt.want {
				t.Errorf("Overlaps(%s..%s, %s..%s) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.want)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	svc, _, _, _ := newTestService(t, availableProperty(propertyA, ownerID))

	if _, err := svc.RequestBooking(context.Background(), tenantU, &model.BookingRequest{
		PropertyID: propertyA,
		StartDate:  "2024-06-01",
		EndDate:    "2024-06-05",
	}); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{name: "booked range", start: "2024-06-01", end: "2024-06-05", want: false},
		{name: "overlapping range", start: "2024-06-04", end: "2024-06-08", want: false},
		{name: "touching end day", start: "2024-06-05", end: "2024-06-10", want: false},
		{name: "day after", start: "2024-06-06", end: "2024-06-10", want: true},
		{name: "well clear", start: "2024-07-01", end: "2024-07-05", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsAvailable(context.Background(), propertyA, day(tt.start), day(tt.end))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAvailable(%s..%s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestIsAvailable_CancelledBookingsIgnored(t *testing.T) {
	svc, _, _, _ := newTestService(t, availableProperty(propertyA, ownerID))

	booking, err := svc.RequestBooking(context.Background(), tenantU, &model.BookingRequest{
		PropertyID: propertyA,
		StartDate:  "2024-06-01",
		EndDate:    "2024-06-05",
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), tenantU, booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	available, err := svc.IsAvailable(context.Background(), propertyA, day("2024-06-01"), day("2024-06-05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("cancelled bookings must not block availability")
	}
}

func TestIsAvailable_Errors(t *testing.T) {
	svc, _, _, _ := newTestService(t, availableProperty(propertyA, ownerID))

	_, err := svc.IsAvailable(context.Background(), "", day("2024-06-01"), day("2024-06-05"))
	assertAppError(t, err, apperrors.CodeInvalidInput)

	_, err = svc.IsAvailable(context.Background(), propertyA, day("2024-06-05"), day("2024-06-01"))
	assertAppError(t, err, apperrors.CodeInvalidInput)

	_, err = svc.IsAvailable(context.Background(), propertyB, day("2024-06-01"), day("2024-06-05"))
	assertAppError(t, err, apperrors.CodeNotFound)
}

package reservation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf_CanonicalAndLegacy(t *testing.T) {
	for _, s := range CanonicalStatuses {
		info := StatusOf(string(s))
		assert.Equal(t, string(s), info.Key)
		assert.NotEmpty(t, info.Color)
	}

	for alias := range legacyAliases {
		info := StatusOf(string(alias))
		assert.Equal(t, string(alias), info.Key)
		assert.NotEqual(t, UnknownStatus, info)
	}

	assert.Equal(t, StatusOf("cancelled").Color, StatusOf("cancel").Color)
	assert.True(t, StatusOf("confirmed").IsBlocking)
	assert.False(t, StatusOf("room_ready").IsBlocking)
}

func TestStatusOf_UnknownFallback(t *testing.T) {
	assert.Equal(t, UnknownStatus, StatusOf("exploded"))
	assert.Equal(t, UnknownStatus, StatusOf(""))
}

func TestLegend_CanonicalOrder(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, 8)
	assert.Equal(t, "initial", legend[0].Key)
	assert.Equal(t, "no_show", legend[7].Key)
}

func TestCanonical(t *testing.T) {
	cases := map[string]Status{
		"checkin":       StatusCheckIn,
		"check_in":      StatusCheckIn,
		"draft":         StatusInitial,
		"room_assigned": StatusConfirmed,
		"cancel":        StatusCancelled,
		" confirmed ":   StatusConfirmed,
	}
	for raw, want := range cases {
		got, ok := Canonical(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := Canonical("nope")
	assert.False(t, ok)

	_, err := ParseStatus("check_in")
	assert.Error(t, err, "legacy tokens are never accepted as write targets")
}

func TestDurationLabel_InclusiveNights(t *testing.T) {
	r := Reservation{DateStart: "2024-03-10", DateEnd: "2024-03-12"}
	assert.Equal(t, "3d", DurationLabel(r))

	r = Reservation{DateStart: "2024-03-10 14:00:00", DateEnd: "2024-03-10 18:00:00"}
	assert.Equal(t, "1d", DurationLabel(r))

	r = Reservation{DateStart: "garbage", DateEnd: "2024-03-12"}
	assert.Equal(t, "0d", DurationLabel(r))
}

func TestSpan_RejectsBadDates(t *testing.T) {
	_, _, err := Reservation{DateStart: "2024-13-45", DateEnd: "2024-03-12"}.Span()
	var dpe DateParseError
	require.True(t, errors.As(err, &dpe))
	assert.Equal(t, "date_start", dpe.Field)

	_, _, err = Reservation{DateStart: "2024-03-12", DateEnd: "2024-03-10"}.Span()
	assert.Error(t, err)

	start, end, err := Reservation{DateStart: "2024-03-10T14:00:00", DateEnd: "2024-03-12"}.Span()
	require.NoError(t, err)
	assert.Equal(t, 14, start.Hour())
	assert.Equal(t, 12, end.Day())
}

func TestRangeUnavailableError_Cleaning(t *testing.T) {
	err := error(RangeUnavailableError{RoomID: 1, StartDay: 3, EndDay: 4, Cleaning: true})
	assert.True(t, errors.Is(err, ErrCleaningBlocked))
	assert.Equal(t, CodeCleaningBlocked, CodeOf(err))

	err = RangeUnavailableError{RoomID: 1, StartDay: 3, EndDay: 4}
	assert.False(t, errors.Is(err, ErrCleaningBlocked))
	assert.Equal(t, CodeRangeUnavailable, CodeOf(err))
}

func TestRoomTypeAndLabels(t *testing.T) {
	assert.Equal(t, "Suite", Room{Name: "Suite 101"}.RoomType())
	assert.Equal(t, "", Room{Name: "  "}.RoomType())
	assert.Equal(t, "ANA MARI...", ShortCustomerName("Ana Maria Lopez"))
	assert.Equal(t, "BOB", ShortCustomerName("bob"))
	assert.Equal(t, "$ 12.50", FormatPrice(decimal.RequireFromString("12.5"), ""))
	assert.Equal(t, "S/ 100.00", FormatPrice(decimal.NewFromInt(100), "S/"))
}

func TestIsCheckoutSoon(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.True(t, Reservation{State: "checkin", DateEnd: "2024-03-10"}.IsCheckoutSoon(now))
	assert.True(t, Reservation{State: "checkin", DateEnd: "2024-03-11 12:00:00"}.IsCheckoutSoon(now))
	assert.False(t, Reservation{State: "checkin", DateEnd: "2024-03-13"}.IsCheckoutSoon(now))
	assert.False(t, Reservation{State: "checkout", DateEnd: "2024-03-10"}.IsCheckoutSoon(now))
}

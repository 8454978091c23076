package reservation

// StatusInfo is the display metadata of a reservation state.
type StatusInfo struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Emoji       string `json:"emoji"`
	LegendClass string `json:"legendClass"`
	IsBlocking  bool   `json:"isBlocking"`
}

var UnknownStatus = StatusInfo{
	Key:         "unknown",
	Label:       "UNKNOWN",
	Description: "Unknown reservation state.",
	Color:       "#7B1FA2",
	Emoji:       "🟣",
	LegendClass: "unknown",
}

var registry = map[Status]StatusInfo{
	StatusInitial: {
		Key: "initial", Label: "DRAFT", Description: "Draft reservation, not active yet.",
		Color: "#A9A9A9", Emoji: "⚫", LegendClass: "draft",
	},
	StatusConfirmed: {
		Key: "confirmed", Label: "CONFIRMED", Description: "Reservation confirmed and guaranteed.",
		Color: "#00BFA5", Emoji: "🟢", LegendClass: "confirmed", IsBlocking: true,
	},
	StatusCheckIn: {
		Key: "checkin", Label: "CHECK-IN", Description: "Guest in the room, stay in progress.",
		Color: "#FF6B35", Emoji: "🟠", LegendClass: "checkin", IsBlocking: true,
	},
	StatusCheckOut: {
		Key: "checkout", Label: "CHECK-OUT", Description: "Guest left, stay finished.",
		Color: "#1A237E", Emoji: "🔵", LegendClass: "checkout",
	},
	StatusCleaningNeeded: {
		Key: "cleaning_needed", Label: "CLEANING NEEDED", Description: "Room needs cleaning.",
		Color: "#FF9800", Emoji: "🟡", LegendClass: "cleaning_needed",
	},
	StatusRoomReady: {
		Key: "room_ready", Label: "ROOM READY", Description: "Room clean and ready for new guests.",
		Color: "#4CAF50", Emoji: "🟢", LegendClass: "room_ready",
	},
	StatusCancelled: {
		Key: "cancelled", Label: "CANCELLED", Description: "Reservation cancelled.",
		Color: "#D32F2F", Emoji: "🔴", LegendClass: "cancelled",
	},
	StatusNoShow: {
		Key: "no_show", Label: "NO SHOW", Description: "The guest did not show up.",
		Color: "#7c5bba", Emoji: "🟣", LegendClass: "no-show",
	},

	LegacyDraft: {
		Key: "draft", Label: "DRAFT", Description: "Draft reservation (legacy state).",
		Color: "#A9A9A9", Emoji: "⚫", LegendClass: "draft",
	},
	LegacyConfirm: {
		Key: "confirm", Label: "CONFIRMED", Description: "Reservation confirmed (legacy state).",
		Color: "#00BFA5", Emoji: "🟢", LegendClass: "confirmed", IsBlocking: true,
	},
	LegacyCheckIn: {
		Key: "check_in", Label: "CHECK-IN", Description: "Guest in the room (legacy state).",
		Color: "#FF6B35", Emoji: "🟠", LegendClass: "checkin", IsBlocking: true,
	},
	LegacyAllot: {
		Key: "allot", Label: "CHECK-IN", Description: "Room allotted (legacy state).",
		Color: "#FF6B35", Emoji: "🟠", LegendClass: "checkin", IsBlocking: true,
	},
	LegacyCheckoutPending: {
		Key: "checkout_pending", Label: "CHECK-OUT PENDING", Description: "Check-out pending (legacy state).",
		Color: "#1A237E", Emoji: "🔵", LegendClass: "checkout_pending",
	},
	LegacyPending: {
		Key: "pending", Label: "PENDING", Description: "Reservation awaiting confirmation (legacy state).",
		Color: "#00BFA5", Emoji: "🟢", LegendClass: "pending",
	},
	LegacyRoomAssigned: {
		Key: "room_assigned", Label: "ROOM ASSIGNED", Description: "Room assigned (legacy state).",
		Color: "#FF6B35", Emoji: "🟠", LegendClass: "room_assigned", IsBlocking: true,
	},
	LegacyCancel: {
		Key: "cancel", Label: "CANCELLED", Description: "Reservation cancelled (legacy state).",
		Color: "#D32F2F", Emoji: "🔴", LegendClass: "cancelled",
	},
	LegacyDone: {
		Key: "done", Label: "FINISHED", Description: "Reservation finished (legacy state).",
		Color: "#4CAF50", Emoji: "🟢", LegendClass: "done",
	},
}

// StatusOf returns the display metadata for a raw state token. Unknown tokens
// get UnknownStatus.
func StatusOf(key string) StatusInfo {
	if info, ok := registry[Status(key)]; ok {
		return info
	}
	return UnknownStatus
}

// Legend lists the canonical states in lifecycle order.
func Legend() []StatusInfo {
	out := make([]StatusInfo, 0, len(CanonicalStatuses))
	for _, s := range CanonicalStatuses {
		out = append(out, registry[s])
	}
	return out
}

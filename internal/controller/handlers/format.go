package handlers

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
)

// maxSlotLines ограничивает длину ответа, у Telegram предел 4096 символов
const maxSlotLines = 60

// SlotStatusDisplay представляет отображение занятости слота
type SlotStatusDisplay struct {
	Emoji string
	Text  string
}

// GetSlotStatusDisplay возвращает emoji и текст для слота
func GetSlotStatusDisplay(slot model.AvailableSlot) SlotStatusDisplay {
	switch {
	case !slot.IsAvailable:
		return SlotStatusDisplay{"🔴", "full"}
	case slot.CapacityUsed > 0:
		return SlotStatusDisplay{"🟡", "partly booked"}
	default:
		return SlotStatusDisplay{"🟢", "free"}
	}
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d h", hours)
	}
	return fmt.Sprintf("%d h %d min", hours, mins)
}

// FormatInterval форматирует диапазон времени
func FormatInterval(i model.Interval) string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}

// FormatSlots список слотов на день
func FormatSlots(campus string, date model.Date, duration int, slots []model.AvailableSlot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📅 %s, %s (%s), %s\n\n", campus, date, date.Weekday().String()[:3], FormatDuration(duration))

	if len(slots) == 0 {
		sb.WriteString("No slots: non-working day or every mentor is on leave")
		return sb.String()
	}

	free := 0
	for i, slot := range slots {
		if slot.IsAvailable {
			free++
		}
		if i >= maxSlotLines {
			continue
		}

		display := GetSlotStatusDisplay(slot)
		fmt.Fprintf(&sb, "%s %s %s %d/%d\n",
			display.Emoji,
			FormatInterval(slot.Interval()),
			shortID(slot.MentorID.String()),
			slot.CapacityUsed,
			slot.CapacityMax,
		)
	}

	if len(slots) > maxSlotLines {
		fmt.Fprintf(&sb, "... and %d more\n", len(slots)-maxSlotLines)
	}

	fmt.Fprintf(&sb, "\nFree: %d of %d", free, len(slots))
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

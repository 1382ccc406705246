// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"time"
)

// TimeAgo formats the age of t relative to now as the recent-chats list
// shows it, for example "JUST NOW", "5 MINUTES AGO" or "1 DAY AGO".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "UNKNOWN"
	}
	d := now.Sub(t)
	if d < time.Minute {
		return "JUST NOW"
	}

	unit := func(n int, name string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s AGO", name)
		}
		return fmt.Sprintf("%d %sS AGO", n, name)
	}

	switch {
	case d < time.Hour:
		return unit(int(d/time.Minute), "MINUTE")
	case d < 24*time.Hour:
		return unit(int(d/time.Hour), "HOUR")
	case d < 30*24*time.Hour:
		return unit(int(d/(24*time.Hour)), "DAY")
	case d < 365*24*time.Hour:
		return unit(int(d/(30*24*time.Hour)), "MONTH")
	default:
		return unit(int(d/(365*24*time.Hour)), "YEAR")
	}
}

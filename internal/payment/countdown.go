package payment

import (
	"fmt"
	"time"
)

const ExpiredLabel = "Expirado"

// FormatTimeLeft renders remaining whole seconds as m:ss, or the expired label.
func FormatTimeLeft(remaining time.Duration) string {
	secs := int64(remaining / time.Second)
	if remaining < 0 && remaining%time.Second != 0 {
		secs--
	}
	if secs <= 0 {
		return ExpiredLabel
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

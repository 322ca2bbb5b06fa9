package exam

import "fmt"

// FormatClock renders seconds as H:MM:SS, or MM:SS below one hour.
func FormatClock(s int) string {
	if s < 0 {
		s = 0
	}
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

package scraper

import (
	"regexp"
	"strings"

	"github.com/nikolasamardzija/busNS-rest-api/models"
)

// KeyPolicy decides which hour marker texts become schedule keys.
//
// One-direction pages accept any text, two-direction pages only digits.
type KeyPolicy int

const (
	// AnyHour keeps every trimmed marker text, including the empty string.
	AnyHour KeyPolicy = iota
	// DigitsOnlyHour keeps texts matching ^[0-9]+$.
	DigitsOnlyHour
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func (p KeyPolicy) Accept(hour string) bool {
	switch p {
	case DigitsOnlyHour:
		return digitsOnly.MatchString(hour)
	default:
		return true
	}
}

// Walk builds a schedule from hour markers in document order. Each marker
// collects the minute markers that directly follow it; a rejected marker is
// skipped without touching any other entry.
func Walk(markers []Marker, policy KeyPolicy) *models.ScheduleMap {
	schedule := models.NewScheduleMap()
	for _, m := range markers {
		hour := strings.TrimSpace(m.Text())
		if !policy.Accept(hour) {
			continue
		}
		schedule.Reset(hour)
	siblings:
		for _, n := range m.following() {
			switch n.Role {
			case RoleMinuteMarker:
				schedule.Append(hour, strings.TrimSpace(n.Text))
			case RoleHourMarker, RoleHeaderCell, RoleOther:
				break siblings
			}
		}
	}
	return schedule
}

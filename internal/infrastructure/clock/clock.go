package clock

import "time"

// System implementa ports.Clock com o relógio do sistema em UTC
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

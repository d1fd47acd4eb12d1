package ports

import "time"

// Clock fornece o instante atual em UTC
type Clock interface {
	Now() time.Time
}

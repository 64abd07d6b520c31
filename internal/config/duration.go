package config

import "time"

// Duration is a time.Duration read from a config file as text such as "250ms".
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// AsDuration returns d for use with timers and contexts.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// ParseDuration accepts any string time.ParseDuration does.
func ParseDuration(s string) (Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return Duration(d), nil
}

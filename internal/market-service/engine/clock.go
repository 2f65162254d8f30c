package engine

import "time"

// ClockFunc adapta uma função para a interface Clock.
type ClockFunc func() int64

func (f ClockFunc) Now() int64 { return f() }

// SystemClock lê o relógio do sistema em segundos unix.
func SystemClock() Clock {
	return ClockFunc(func() int64 { return time.Now().Unix() })
}

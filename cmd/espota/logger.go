package main

import (
	"github.com/rs/zerolog"
)

// zerologAdapter bridges the uploader's Logger interface onto zerolog.
type zerologAdapter struct {
	l zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	emit(a.l.Debug(), msg, keysAndValues)
}

func (a *zerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	emit(a.l.Info(), msg, keysAndValues)
}

func (a *zerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	emit(a.l.Error(), msg, keysAndValues)
}

func emit(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

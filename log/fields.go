package log

import "go.uber.org/zap"

var (
	Any      = zap.Any
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Ints     = zap.Ints
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Time     = zap.Time
	Stringer = zap.Stringer
)

// ErrorField adds the error under the key "error"
func ErrorField(err error) Field {
	return zap.Error(err)
}

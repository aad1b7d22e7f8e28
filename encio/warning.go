package encio

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is where warnings are sent to.
// In many cases the codec will continue to operate with e.g. malformed struct tags or incorrectly implemented io.Writers,
// however I don't want to silently put up with things that seem worrying.
//
// It discards everything by default.
var Logger = zap.NewNop()

// SetLogger replaces Logger. A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Logger = l
}

func zapType(v interface{}) zap.Field {
	return zap.String("type", fmt.Sprintf("%T", v))
}

func zapInt(key string, n int) zap.Field {
	return zap.Int(key, n)
}

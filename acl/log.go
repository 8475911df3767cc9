package acl

import "go.uber.org/zap"

// logger is the package-level injectable logger, defaulting to a no-op
// so library consumers who never call SetLogger see no output.
var logger = zap.NewNop()

// SetLogger installs l as this package's logger. It is not passed on to
// the geo, outbound or resolver packages. Passing nil restores the no-op
// default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

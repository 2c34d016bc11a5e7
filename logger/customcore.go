// customcore.go
package logger

import (
	"go.uber.org/zap/zapcore"
)

// customCore writes the 'pid' and 'application' fields after the call-site fields.
// zap always encodes context fields first, so they are carried here instead of being
// attached with With.
type customCore struct {
	zapcore.Core
	trailing []zapcore.Field
}

// With adds structured context to the Core.
func (c *customCore) With(fields []zapcore.Field) zapcore.Core {
	return &customCore{Core: c.Core.With(fields), trailing: c.trailing}
}

// Write serializes the Entry and any Fields supplied at the log site and writes them to their destination.
// A call-site 'pid' or 'application' field replaces the trailing default of the same key.
func (c *customCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	reordered := make([]zapcore.Field, 0, len(fields)+len(c.trailing))
	overrides := map[string]zapcore.Field{}
	for _, field := range fields {
		if field.Key == "pid" || field.Key == "application" {
			overrides[field.Key] = field
			continue
		}
		reordered = append(reordered, field)
	}

	for _, key := range []string{"pid", "application"} {
		if field, ok := overrides[key]; ok {
			reordered = append(reordered, field)
			continue
		}
		for _, field := range c.trailing {
			if field.Key == key {
				reordered = append(reordered, field)
			}
		}
	}

	return c.Core.Write(entry, reordered)
}

// Check registers this core, not the wrapped one, so Write above sees every entry.
func (c *customCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, c)
	}
	return checkedEntry
}

// Sync flushes buffered logs (if any).
func (c *customCore) Sync() error {
	return c.Core.Sync()
}

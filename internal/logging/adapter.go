package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Adapter lets the bootloader and transport packages log through logrus.
// Key-value pairs become entry fields.
type Adapter struct {
	Entry logrus.FieldLogger
}

// NewAdapter wraps l.
func NewAdapter(l logrus.FieldLogger) *Adapter {
	return &Adapter{Entry: l}
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.Entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.Entry.WithFields(fields(keysAndValues)).Info(msg)
}

func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.Entry.WithFields(fields(keysAndValues)).Error(msg)
}

// fields pairs up keysAndValues. A trailing key without a value is
// logged under "extra".
func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			f["extra"] = keysAndValues[i]
			break
		}
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}

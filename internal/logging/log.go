package logging

import "github.com/sirupsen/logrus"

// Who tags every entry with the emitting component.
type Who struct {
	Name string
}

func (w Who) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (w Who) Fire(entry *logrus.Entry) error {
	entry.Data["who"] = w.Name
	return nil
}

// New clones the root logger and tags all of its entries with a component
// name, so each component gets its own logger without global state.
func New(root *logrus.Logger, name string) *logrus.Logger {
	l := &logrus.Logger{
		Out:          root.Out,
		Formatter:    root.Formatter,
		Hooks:        make(logrus.LevelHooks),
		Level:        root.Level,
		ExitFunc:     root.ExitFunc,
		ReportCaller: root.ReportCaller,
	}
	l.AddHook(Who{Name: name})
	return l
}

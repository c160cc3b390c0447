package log

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// log.Info("processing project %s", p.ID)

func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

func Info(format string, args ...any) {
	log.Infof(format, args...)
}

func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	log.Fatalf(format, args...)
}

// Configure sets the level and output of the process logger. An empty level keeps "info".
func Configure(level string, out io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if out != nil {
		log.SetOutput(out)
	}
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
	return nil
}

func IsDebug() bool {
	return log.IsLevelEnabled(log.DebugLevel)
}

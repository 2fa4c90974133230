package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs the elapsed time of a call at debug level. Use as defer TrackTime("name", time.Now()).
func TrackTime(funcName string, start time.Time) {
	elapsed := time.Since(start)
	log.Debugf("%s took %d ms", funcName, elapsed.Milliseconds())
}

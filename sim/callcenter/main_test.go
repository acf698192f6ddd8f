package callcenter

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Callers narrate arrivals and calls at debug level.
	// Set DEBUG_TESTS=1 to see them: DEBUG_TESTS=1 go test ./sim/callcenter/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}
	os.Exit(m.Run())
}

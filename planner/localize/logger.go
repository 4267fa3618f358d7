package localize

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "localize")

package scan

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "scan")

package transport

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "transport")

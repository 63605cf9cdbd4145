package handler

import (
	"github.com/sirupsen/logrus"

	"perplexity-proxy/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

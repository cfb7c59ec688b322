package utils

import (
	"contractsim/utils/config"
	"contractsim/utils/log"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func init() {
	config.LoadConf()
	Log = log.InitLogger()

	Log.Infof("------------------------------------")
	Log.Infof("----- Application Initializing -----")
	Log.Infof("------------------------------------")
}

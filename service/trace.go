package service

import (
	"contractsim/engine"
	"contractsim/utils"
)

// LogTracer routes engine step events into the application log at debug
// level, keyed by pipeline stage.
func LogTracer() engine.Tracer {
	return func(event engine.StepEvent) {
		if event.Symbol != "" {
			utils.Log.Debugf("[%s] %s: %s", event.Step, event.Symbol, event.Message)
			return
		}
		utils.Log.Debugf("[%s] %s", event.Step, event.Message)
	}
}

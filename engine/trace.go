package engine

import "fmt"

type StepType string

var (
	StepValuation   StepType = "VALUATION"
	StepMerge       StepType = "MERGE"
	StepDex         StepType = "DEX"
	StepLiquidation StepType = "LIQUIDATION"
)

// StepEvent is emitted once per pipeline stage and symbol so callers can
// trace how a figure was produced without the engine holding any log state.
type StepEvent struct {
	Step    StepType
	Symbol  string
	Message string
}

type Tracer func(StepEvent)

func (p *Pipeline) trace(step StepType, symbol, format string, args ...interface{}) {
	if p.tracer == nil {
		return
	}
	p.tracer(StepEvent{Step: step, Symbol: symbol, Message: fmt.Sprintf(format, args...)})
}

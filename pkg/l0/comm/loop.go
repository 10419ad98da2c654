package comm

import (
	fx "github.com/robotalks/rccar.go/pkg/framework"
)

// AddToLoop implements LoopAdder.
func (d *Dispatcher) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, d)
}

// Control implements Controller. One request is handled per iteration
// while a host is attached, and the next iteration is triggered
// immediately when a request was pending.
func (d *Dispatcher) Control(cc fx.ControlContext) error {
	if !d.IsConnected() {
		return nil
	}
	handled, err := d.handleNext()
	if handled {
		cc.TriggerNext()
	}
	return err
}

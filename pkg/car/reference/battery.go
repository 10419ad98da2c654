package reference

import "math"

// Cell thresholds in ADC counts. 675 is about 3.3V and 863 about 4.2V
// per cell.
const (
	MinPerCell = 675
	MaxPerCell = 863
)

// Battery tracks a two cell LiPo pack.
type Battery struct {
	Sensor CellSensor

	nearEmpty bool
	value     int16
	cells     [2]int
}

// NewBattery creates a Battery. It reports near empty until updated.
func NewBattery(sensor CellSensor) *Battery {
	return &Battery{Sensor: sensor, nearEmpty: true}
}

// Update samples the cells.
func (b *Battery) Update() {
	both, one := b.Sensor.ReadCells()
	cellOne := one
	cellTwo := both*2 - cellOne
	b.cells = [2]int{cellOne, cellTwo}
	b.nearEmpty = !(cellOne >= MinPerCell && cellTwo >= MinPerCell)
	weaker := cellOne
	if cellTwo < weaker {
		weaker = cellTwo
	}
	if weaker < MinPerCell {
		weaker = MinPerCell
	} else if weaker > MaxPerCell {
		weaker = MaxPerCell
	}
	b.value = int16(Map(weaker, MinPerCell, MaxPerCell, 0, math.MaxInt16))
}

// NearEmpty reports the result of the last Update.
func (b *Battery) NearEmpty() bool {
	return b.nearEmpty
}

// Value is the charge of the weaker cell, 0..32767.
func (b *Battery) Value() int16 {
	return b.value
}

// Cells returns the last sampled cell counts.
func (b *Battery) Cells() [2]int {
	return b.cells
}

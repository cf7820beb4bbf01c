package document

import (
	"fmt"
	"strconv"
)

// BladeKey builds the key of a per-blade parameter, e.g. BlPitch(2).
func BladeKey(base string, blade int) string {
	return base + "(" + strconv.Itoa(blade) + ")"
}

func checkBlade(base string, blade int) error {
	if blade < 1 {
		return &ReferenceError{Key: base, Err: fmt.Errorf("blade number %d is not positive", blade)}
	}
	return nil
}

// GetOnBlade returns the value of base for one blade. Blades are numbered
// from 1.
func (d *Document) GetOnBlade(base string, blade int) (string, error) {
	if err := checkBlade(base, blade); err != nil {
		return "", err
	}
	return d.Get(BladeKey(base, blade))
}

// SetOnBlade sets the value of base for one blade.
func (d *Document) SetOnBlade(base string, blade int, value any) error {
	if err := checkBlade(base, blade); err != nil {
		return err
	}
	return d.Set(BladeKey(base, blade), value)
}

// SetOnBlades sets the value of base for blades 1 to count.
func (d *Document) SetOnBlades(base string, count int, value any) error {
	for blade := 1; blade <= count; blade++ {
		if err := d.SetOnBlade(base, blade, value); err != nil {
			return err
		}
	}
	return nil
}

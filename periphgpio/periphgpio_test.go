package periphgpio

import (
	"context"
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func TestLines(t *testing.T) {
	p0 := &gpiotest.Pin{N: "GPIO22"}
	p1 := &gpiotest.Pin{N: "GPIO27"}

	l, err := NewLines([]gpio.PinOut{p0, p1}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Len(), test.ShouldEqual, 2)
	test.That(t, p0.L, test.ShouldEqual, gpio.High)
	test.That(t, p1.L, test.ShouldEqual, gpio.High)

	err = l.SetValues(context.Background(), []bool{false, true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p0.L, test.ShouldEqual, gpio.Low)
	test.That(t, p1.L, test.ShouldEqual, gpio.High)
}

func TestPWMClock(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO12"}
	c := NewPWMClock(p, 32768)

	test.That(t, c.PrepareEnable(context.Background()), test.ShouldBeNil)
	test.That(t, p.D, test.ShouldEqual, gpio.DutyHalf)
	test.That(t, p.F, test.ShouldEqual, 32768*physic.Hertz)

	test.That(t, c.DisableUnprepare(context.Background()), test.ShouldBeNil)
	test.That(t, p.L, test.ShouldEqual, gpio.Low)
}

func TestByNameMissing(t *testing.T) {
	_, err := ByName("NOT_A_PIN")
	test.That(t, err, test.ShouldNotBeNil)
}

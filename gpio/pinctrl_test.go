package gpio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.viam.com/test"
)

func fakePinctrl(t *testing.T, fail string) *[]string {
	t.Helper()
	var calls []string
	oldRun, oldSettle := runPinctrl, outputSettle
	runPinctrl = func(args ...string) ([]byte, error) {
		call := strings.Join(args, " ")
		calls = append(calls, call)
		if fail != "" && call == fail {
			return []byte("pinctrl: invalid pin"), errors.New("exit status 1")
		}
		return nil, nil
	}
	outputSettle = 0
	t.Cleanup(func() {
		runPinctrl, outputSettle = oldRun, oldSettle
	})
	return &calls
}

func TestPinctrlLines(t *testing.T) {
	calls := fakePinctrl(t, "")

	l, err := NewPinctrlLines([]int{22, 27}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Len(), test.ShouldEqual, 2)
	test.That(t, *calls, test.ShouldResemble, []string{
		"set 22 op", "set 27 op", "set 22 dh", "set 27 dh",
	})

	*calls = nil
	test.That(t, l.SetValues(context.Background(), []bool{false, true}), test.ShouldBeNil)
	test.That(t, *calls, test.ShouldResemble, []string{"set 22 dl", "set 27 dh"})
}

func TestPinctrlFailure(t *testing.T) {
	fakePinctrl(t, "set 99 op")

	_, err := NewPinctrlLines([]int{22, 99}, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "error setting GPIO 99 to op")
	test.That(t, err.Error(), test.ShouldContainSubstring, "pinctrl: invalid pin")
}

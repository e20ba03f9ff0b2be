//go:build !linux

package boarddesc

import (
	"errors"

	"github.com/viam-modules/wilc/pwrseq"
)

var errNoCDev = errors.New("gpiocdev backend is only available on linux")

func (r *Resolver) requestLines(chip string, offsets []int, initial bool) (pwrseq.Lines, error) {
	return nil, errNoCDev
}

//go:build linux

package boarddesc

import (
	"github.com/viam-modules/wilc/cdev"
	"github.com/viam-modules/wilc/pwrseq"
)

func (r *Resolver) requestLines(chip string, offsets []int, initial bool) (pwrseq.Lines, error) {
	l, err := cdev.RequestLines(chip, offsets, initial)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, l)
	return l, nil
}

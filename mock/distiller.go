package mock

import "github.com/fwojciec/prodex"

var _ prodex.Distiller = (*Distiller)(nil)

// Distiller is a mock implementation of prodex.Distiller.
type Distiller struct {
	DistillFn func(html string) (string, error)
}

func (d *Distiller) Distill(html string) (string, error) {
	return d.DistillFn(html)
}

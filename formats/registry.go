package formats

import (
	"fmt"
	"sync"

	"github.com/joshuapare/iekit/internal/format"
	"github.com/joshuapare/iekit/schema"
)

var (
	defaultOnce sync.Once
	defaultReg  *schema.Registry
)

// Default returns the registry of every supported signature and version.
// It is built and validated once; a defect in a built-in program panics.
func Default() *schema.Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		if err := r.Validate(); err != nil {
			panic(fmt.Sprintf("formats: invalid built-in registry: %v", err))
		}
		defaultReg = r
	})
	return defaultReg
}

// NewRegistry returns a fresh, unvalidated registry holding the built-in
// programs. Callers extend it with their own programs before validating.
func NewRegistry() *schema.Registry {
	r := schema.NewRegistry()
	r.Register(format.SigCHU, "V1  ", chuV1)
	r.Register(format.SigITM, "V1  ", itmV1)
	r.Register(format.SigSPL, "V1  ", splV1)
	r.Register(format.SigCRE, "V1.0", creV10)
	r.Register(format.SigCRE, "V1.1", creV11)
	r.Register(format.SigCRE, "V1.2", creV12)
	r.Register(format.SigCRE, "V9.0", creV90)
	for _, v := range []string{"V1.0", "V2.0", "V2.1"} {
		r.Register(format.SigCHR, v, chrV1)
	}
	r.Register(format.SigCHR, "V2.2", chrV22)
	r.Register(format.SigGAM, "V1.1", gamV11)
	r.Register(format.SigGAM, "V2.0", gamV20)
	r.Register(format.SigSTO, "V1.0", stoV10)
	return r
}

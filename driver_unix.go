//go:build unix

package aiofile

import (
	"github.com/hupe1980/aiofile/aio"
)

// NewNativeDriver creates a Driver issuing requests on raw unix descriptors.
func NewNativeDriver(optFns ...Option) (*Driver, error) {
	opts := applyOptions(optFns)
	l := newLoop(opts.logger)
	n := aio.NewNative(l, func(o *aio.Options) {
		o.Resources = opts.resources
		o.Logger = opts.logger.Logger
	})
	return NewDriver(l, n, optFns...)
}

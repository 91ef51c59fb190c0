package gfx

import "github.com/sirupsen/logrus"

type options struct {
	log logrus.FieldLogger
}

// Option configures a GraphicsContext, FrameDriver or Loop.
type Option func(o *options)

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

func applyOptions(component string, opts []Option) options {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.WithField("component", component)
	return o
}

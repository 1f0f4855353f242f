package workbook

import (
	"github.com/negokaz/excel-handle/internal/excel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	background        bool
	overwriteIfExists bool
	dispatcher        excel.Dispatcher
	logger            zerolog.Logger
}

// Option configures Open.
type Option func(*options)

func defaultOptions() options {
	return options{
		background: true,
		logger:     log.Logger,
	}
}

// WithBackground hides the application UI and alert dialogs when true (the default).
func WithBackground(background bool) Option {
	return func(o *options) {
		o.background = background
	}
}

// WithOverwrite recreates the workbook even if the file already exists.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) {
		o.overwriteIfExists = overwrite
	}
}

// WithDispatcher sets the host used to dispatch the application.
// Defaults to excel.DefaultDispatcher().
func WithDispatcher(d excel.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

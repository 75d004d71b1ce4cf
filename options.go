package cerco

import (
	"go.uber.org/zap"

	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/render"
)

// buildOptions holds the configuration collected by a Builder.
type buildOptions struct {
	config    layout.Config
	logger    *zap.Logger
	renderers map[model.BlockKind]layout.BlockRenderer

	// PDF backend
	pdf []render.PDFOption
}

// defaultOptions returns the default build options.
func defaultOptions() buildOptions {
	return buildOptions{
		config: layout.DefaultConfig(),
		logger: nil, // nil means no logging
	}
}

// clone creates a deep copy of buildOptions.
func (o buildOptions) clone() buildOptions {
	newOpts := buildOptions{
		config: o.config,
		logger: o.logger,
	}

	// Deep copy slices and maps
	if o.config.Letterhead != nil {
		newOpts.config.Letterhead = append([]string(nil), o.config.Letterhead...)
	}
	if o.renderers != nil {
		newOpts.renderers = make(map[model.BlockKind]layout.BlockRenderer, len(o.renderers))
		for k, r := range o.renderers {
			newOpts.renderers[k] = r
		}
	}
	if o.pdf != nil {
		newOpts.pdf = append([]render.PDFOption(nil), o.pdf...)
	}

	return newOpts
}

// composerOptions converts the collected options for layout.NewComposer.
func (o buildOptions) composerOptions() []layout.Option {
	var opts []layout.Option
	if o.logger != nil {
		opts = append(opts, layout.WithLogger(o.logger))
	}
	for kind, r := range o.renderers {
		opts = append(opts, layout.WithRenderer(kind, r))
	}
	return opts
}

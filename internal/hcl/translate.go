package hcl

import (
	"fmt"

	"github.com/vk/stackpipe/internal/config"
	"github.com/vk/stackpipe/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate converts the merged HCL schema into the agnostic config model.
func (l *Loader) translate(f *schema.File) (*config.Model, error) {
	model := &config.Model{}
	if len(f.Pipelines) == 0 {
		return model, nil
	}

	p := f.Pipelines[0]
	pipeline := &config.Pipeline{Name: p.Name}
	if p.Source != nil {
		pipeline.Source = &config.Source{
			Repository: p.Source.Repository,
			Branch:     p.Source.Branch,
		}
	}
	if p.Build != nil {
		pipeline.Build = &config.Build{Commands: p.Build.Commands}
	}

	for _, s := range f.Stages {
		stage := &config.StageDef{Name: s.Name}
		for _, u := range s.Units {
			unit, err := l.translateUnit(u)
			if err != nil {
				return nil, fmt.Errorf("unit '%s': %w", u.ID, err)
			}
			stage.Units = append(stage.Units, unit)
		}
		pipeline.Stages = append(pipeline.Stages, stage)
	}

	for _, a := range f.Assets {
		asset, err := l.translateAsset(a)
		if err != nil {
			return nil, fmt.Errorf("asset '%s': %w", a.ID, err)
		}
		pipeline.Assets = append(pipeline.Assets, asset)
	}

	model.Pipeline = pipeline
	return model, nil
}

// translateUnit copies a unit block and statically evaluates its env map.
func (l *Loader) translateUnit(u *schema.Unit) (*config.Unit, error) {
	unit := &config.Unit{
		ID:        u.ID,
		DependsOn: u.DependsOn,
		Assets:    u.Assets,
		Consumes:  u.Consumes,
	}

	if u.Env == nil {
		return unit, nil
	}
	val, diags := u.Env.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating env: %w", diags)
	}
	if val.IsNull() {
		return unit, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("env must be a map of strings, got %s", val.Type().FriendlyName())
	}

	unit.Env = make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key, err := convert.Convert(k, cty.String)
		if err != nil {
			return nil, fmt.Errorf("env key: %w", err)
		}
		value, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("env value for %q: %w", key.AsString(), err)
		}
		unit.Env[key.AsString()] = value.AsString()
	}
	return unit, nil
}

// translateAsset copies an asset block, evaluating each destination's
// free-form parameters to strings.
func (l *Loader) translateAsset(a *schema.Asset) (*config.AssetDef, error) {
	asset := &config.AssetDef{
		ID:     a.ID,
		Kind:   a.Kind,
		Source: a.Source,
	}
	for _, d := range a.Destinations {
		dest := &config.DestinationDef{ID: d.ID, Params: make(map[string]string)}
		if d.Params != nil {
			attrs, diags := d.Params.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("destination '%s': %w", d.ID, diags)
			}
			for name, attr := range attrs {
				v, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					return nil, fmt.Errorf("destination '%s', parameter %q: %w", d.ID, name, diags)
				}
				s, err := convert.Convert(v, cty.String)
				if err != nil {
					return nil, fmt.Errorf("destination '%s', parameter %q: %w", d.ID, name, err)
				}
				dest.Params[name] = s.AsString()
			}
		}
		asset.Destinations = append(asset.Destinations, dest)
	}
	return asset, nil
}

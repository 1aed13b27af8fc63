package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate cross-checks the loaded model before any planning starts. All
// findings are collected into one batch so the user can fix the whole
// definition in a single pass.
//
// A depends_on target that is not defined in the pipeline is deliberately
// not checked here: depending on a unit deployed outside this pipeline is
// allowed, and the ordering validator flags it as a warning later.
func Validate(m *Model) error {
	var errs *multierror.Error

	if m.Pipeline == nil {
		return fmt.Errorf("definition contains no pipeline block")
	}
	p := m.Pipeline
	if p.Name == "" {
		errs = multierror.Append(errs, fmt.Errorf("pipeline has no name"))
	}

	assetIDs := make(map[string]bool, len(p.Assets))
	for _, a := range p.Assets {
		if assetIDs[a.ID] {
			errs = multierror.Append(errs, fmt.Errorf("asset '%s' is defined more than once", a.ID))
			continue
		}
		assetIDs[a.ID] = true
		if a.Source == "" {
			errs = multierror.Append(errs, fmt.Errorf("asset '%s' has no source", a.ID))
		}
		if len(a.Destinations) == 0 {
			errs = multierror.Append(errs, fmt.Errorf("asset '%s' has no destinations", a.ID))
		}
		destIDs := make(map[string]bool, len(a.Destinations))
		for _, d := range a.Destinations {
			if destIDs[d.ID] {
				errs = multierror.Append(errs, fmt.Errorf("asset '%s' declares destination '%s' more than once", a.ID, d.ID))
			}
			destIDs[d.ID] = true
		}
	}

	unitIDs := make(map[string]bool)
	for _, s := range p.Stages {
		for _, u := range s.Units {
			if unitIDs[u.ID] {
				errs = multierror.Append(errs, fmt.Errorf("unit '%s' is defined more than once", u.ID))
				continue
			}
			unitIDs[u.ID] = true
			for _, assetID := range u.Assets {
				if !assetIDs[assetID] {
					errs = multierror.Append(errs, fmt.Errorf("unit '%s' references undefined asset '%s'", u.ID, assetID))
				}
			}
		}
	}

	// Consumed outputs can only come from units this pipeline deploys.
	for _, s := range p.Stages {
		for _, u := range s.Units {
			for _, producer := range u.Consumes {
				if !unitIDs[producer] {
					errs = multierror.Append(errs, fmt.Errorf("unit '%s' consumes outputs of '%s', which is not deployed by this pipeline", u.ID, producer))
				}
			}
		}
	}

	return errs.ErrorOrNil()
}

// Package app implements the application layer for pinsync.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/pinsync/internal/core/ports"
	"go.trai.ch/pinsync/internal/engine/patcher"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader   ports.ConfigLoader
	manifestLoader ports.ManifestLoader
	store          ports.ManifestStore
	hasher         ports.Hasher
	logger         ports.Logger
	tracer         ports.Tracer
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	manifestLoader ports.ManifestLoader,
	store ports.ManifestStore,
	hasher ports.Hasher,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader:   configLoader,
		manifestLoader: manifestLoader,
		store:          store,
		hasher:         hasher,
		logger:         log,
		tracer:         tracer,
	}
}

// SyncOptions configuration for the Sync method.
// Empty Source and Target keep the values from the settings file.
type SyncOptions struct {
	Source     string
	Target     string
	ConfigPath string
	// WorkDir anchors relative paths. Empty means the process working directory.
	WorkDir string
	Check   bool
	Verbose bool
	JSON    bool
}

// Sync regenerates the pinned block of the target manifest from the source
// manifest. The target is replaced only when every pin resolved; otherwise the
// regenerated text is left next to it and ErrMissingDependencies is returned.
// In check mode nothing is written and ErrTargetOutOfDate reports a stale target.
//
//nolint:cyclop // orchestration function
func (a *App) Sync(ctx context.Context, opts SyncOptions) error {
	a.configureLogger(opts)
	defer func() {
		if err := a.tracer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to flush spans: %v", err))
		}
	}()

	// 1. Settings
	var settings *domain.Settings
	err := a.step(ctx, "load settings", func(span ports.Span) error {
		var err error
		settings, err = a.loadSettings(opts)
		if err == nil {
			span.SetAttribute("source", settings.Source)
			span.SetAttribute("target", settings.Target)
		}
		return err
	})
	if err != nil {
		return err
	}

	// 2. Manifests
	source, err := a.loadManifest(ctx, "load source", settings.Source)
	if err != nil {
		return err
	}
	target, err := a.loadManifest(ctx, "load target", settings.Target)
	if err != nil {
		return err
	}

	// 3. Plan
	p := patcher.New(settings)
	var plan *domain.Plan
	err = a.step(ctx, "plan", func(span ports.Span) error {
		var err error
		plan, err = p.Plan(target, source)
		if err == nil {
			span.SetAttribute("pins", len(plan.Updates))
			span.SetAttribute("missing", plan.Missing)
		}
		return err
	})
	if err != nil {
		return err
	}

	// 4. Rewrite
	var current, updated []byte
	err = a.step(ctx, "rewrite", func(span ports.Span) error {
		var err error
		current, err = a.store.Read(settings.Target)
		if err != nil {
			return err
		}
		var found bool
		updated, found = p.Rewrite(current, plan)
		span.SetAttribute("marker_found", found)
		span.SetAttribute("digest", a.hasher.Sum(updated))
		if !found {
			a.logger.Info(fmt.Sprintf("marker %q not found in %s, generated block not written",
				strings.TrimSpace(settings.Marker), settings.Target))
		}
		return nil
	})
	if err != nil {
		return err
	}

	changed := !bytes.Equal(current, updated)

	if opts.Check {
		return a.check(settings, target, plan, changed)
	}

	if !changed && plan.Complete() {
		a.logger.Info(fmt.Sprintf("%s is already up to date", settings.Target))
		return a.store.Discard(domain.StagedPath(settings.Target))
	}

	// 5. Stage
	var staged string
	err = a.step(ctx, "stage", func(span ports.Span) error {
		var err error
		staged, err = a.store.Stage(settings.Target, updated)
		span.SetAttribute("path", staged)
		return err
	})
	if err != nil {
		return err
	}

	if !plan.Complete() {
		return a.reportMissing(plan, staged)
	}

	// 6. Promote
	err = a.step(ctx, "promote", func(span ports.Span) error {
		span.SetAttribute("path", settings.Target)
		return a.store.Promote(staged, settings.Target)
	})
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("updated %d pins in %s", len(plan.Updates), settings.Target))
	return nil
}

func (a *App) configureLogger(opts SyncOptions) {
	ls, ok := a.logger.(ports.LogSettings)
	if !ok {
		return
	}
	ls.SetJSON(opts.JSON)
	ls.SetVerbose(opts.Verbose)
}

// step runs fn inside a span named name, checking for cancellation first.
func (a *App) step(ctx context.Context, name string, fn func(ports.Span) error) error {
	if err := ctx.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "sync interrupted"), "step", name)
	}

	_, span := a.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *App) loadSettings(opts SyncOptions) (*domain.Settings, error) {
	cwd := opts.WorkDir
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get current working directory")
		}
		cwd = wd
	}

	settings, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Source != "" {
		settings.Source = opts.Source
	}
	if opts.Target != "" {
		settings.Target = opts.Target
	}
	settings.Source = resolve(cwd, settings.Source)
	settings.Target = resolve(cwd, settings.Target)

	return settings, nil
}

func (a *App) loadManifest(ctx context.Context, name, path string) (*domain.Manifest, error) {
	var m *domain.Manifest
	err := a.step(ctx, name, func(span ports.Span) error {
		span.SetAttribute("path", path)
		var err error
		m, err = a.manifestLoader.Load(path)
		if err == nil {
			span.SetAttribute("vars", len(m.Vars))
		}
		return err
	})
	return m, err
}

// check reports what a sync would change without writing anything.
func (a *App) check(settings *domain.Settings, target *domain.Manifest, plan *domain.Plan, changed bool) error {
	if !plan.Complete() {
		return a.reportMissing(plan, "")
	}
	if !changed {
		a.logger.Info(fmt.Sprintf("%s is up to date", settings.Target))
		return nil
	}

	for _, u := range plan.Updates {
		old, _ := target.Lookup(u.Key)
		if old != u.Value {
			a.logger.Warn(fmt.Sprintf("%s: %v -> %s", u.Key, old, u.Value))
		}
	}

	err := zerr.With(domain.ErrTargetOutOfDate, "path", settings.Target)
	a.logger.Error(err)
	return errors.Join(domain.ErrTargetOutOfDate, err)
}

// reportMissing logs the unresolved keys and where the placeholder text went.
func (a *App) reportMissing(plan *domain.Plan, staged string) error {
	err := zerr.With(domain.ErrMissingDependencies, "keys", strings.Join(plan.Missing, ", "))
	if staged != "" {
		err = zerr.With(err, "written_to", staged)
	}
	a.logger.Error(err)
	return errors.Join(domain.ErrMissingDependencies, err)
}

func resolve(cwd, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

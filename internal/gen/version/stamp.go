// Package version maintains the persisted build counter and generates the
// firmware version header.
package version

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/rthr/stationbuild/internal/gen/atomicfile"
)

// Config parameterizes one stamping run. Now may be overridden for tests;
// nil means time.Now.
type Config struct {
	Major       int
	Minor       int
	CounterFile string
	Output      string
	Now         func() time.Time
}

// Identifier is the derived version for one build.
type Identifier struct {
	Major int
	Minor int
	Build int
	Stamp time.Time
}

// Short returns "major.minor.build".
func (id Identifier) Short() string {
	return fmt.Sprintf("%d.%d.%d", id.Major, id.Minor, id.Build)
}

// Full returns "major.minor.build <timestamp>" with second precision.
func (id Identifier) Full() string {
	return id.Short() + " " + id.Stamp.Format("2006-01-02 15:04:05")
}

// headerTemplate matches the shape the firmware's version.h has always had,
// including the leading newline and indentation. All three defines are
// guarded so they can be overridden from the build environment.
const headerTemplate = `
    #ifndef BUILD_NUMBER
        #define BUILD_NUMBER "{{.Build}}"
    #endif
    #ifndef VERSION
        #define VERSION "{{.Full}}"
    #endif
    #ifndef VERSION_SHORT
        #define VERSION_SHORT "{{.Short}}"
    #endif
    `

// Stamp reads the persisted counter, increments it, persists the new value
// and renders the version header. A missing or malformed counter file starts
// the count at 1; persist and render failures are fatal.
func Stamp(logger *slog.Logger, cfg Config) (Identifier, error) {
	build := nextBuild(logger, cfg.CounterFile)

	if err := os.WriteFile(cfg.CounterFile, []byte(strconv.Itoa(build)), 0o644); err != nil {
		return Identifier{}, fmt.Errorf("persist build counter: %w", err)
	}
	logger.Info("Build number", "build", build)

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	id := Identifier{
		Major: cfg.Major,
		Minor: cfg.Minor,
		Build: build,
		Stamp: now().Truncate(time.Second),
	}

	tmpl := template.Must(template.New("version").Parse(headerTemplate))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, id); err != nil {
		return Identifier{}, fmt.Errorf("execute version template: %w", err)
	}

	if err := atomicfile.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return Identifier{}, fmt.Errorf("write version header: %w", err)
	}

	logger.Info("Generated version header", "file", cfg.Output, "version", id.Full())
	return id, nil
}

// nextBuild returns the prior persisted counter plus one, or 1 when no usable
// prior value exists.
func nextBuild(logger *slog.Logger, path string) int {
	data, err := os.ReadFile(path)
	if err == nil {
		if n, perr := strconv.Atoi(strings.TrimSpace(string(data))); perr == nil && n >= 0 {
			return n + 1
		}
	}
	logger.Info("Starting build number from 1")
	return 1
}

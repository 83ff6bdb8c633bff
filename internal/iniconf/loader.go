// Package iniconf loads INI run-configuration files into the ordered
// config.Document model. Comment lines use ';' or '#', and values may
// reference other keys in the same section (or the DEFAULT section) with the
// %(name)s interpolation syntax; interpolation is resolved here, before the
// document reaches the builder.
package iniconf

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/astrokit/ptapipe/internal/config"
	"github.com/astrokit/ptapipe/internal/ctxlog"
)

// Load parses the INI file at path into a Document, preserving section and
// key declaration order.
func Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)

	file, err := ini.LoadSources(ini.LoadOptions{}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	doc := &config.Document{}
	for _, sec := range file.Sections() {
		// ini.v1 always materializes a DEFAULT section; keep it only when
		// the file actually declared keys there.
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		out := &config.Section{Name: sec.Name()}
		for _, key := range sec.Keys() {
			// String() resolves %(name)s references recursively.
			out.Entries = append(out.Entries, config.Entry{Key: key.Name(), Value: key.String()})
		}
		doc.Sections = append(doc.Sections, out)
	}

	logger.Debug("Configuration file loaded.", "path", path, "sections", len(doc.Sections))
	return doc, nil
}

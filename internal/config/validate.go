package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWeeding(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	// The output directory is destroyed at the start of every run, so it must
	// never contain the corpus or the state directory.
	if within(c.Paths.OutputDir, c.Paths.InputDir) {
		return fmt.Errorf("paths.output_dir %q must not contain paths.input_dir %q", c.Paths.OutputDir, c.Paths.InputDir)
	}
	if within(c.Paths.OutputDir, c.Paths.StateDir) {
		return fmt.Errorf("paths.output_dir %q must not contain paths.state_dir %q", c.Paths.OutputDir, c.Paths.StateDir)
	}
	if filepath.Dir(c.Paths.OutputDir) == c.Paths.OutputDir {
		return fmt.Errorf("paths.output_dir %q must not be a filesystem root", c.Paths.OutputDir)
	}
	return nil
}

func (c *Config) validateWeeding() error {
	if c.Weeding.Workers < 0 {
		return errors.New("weeding.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.OwnerUID < noOwnerChange {
		return errors.New("output.owner_uid must be >= -1")
	}
	if c.Output.OwnerGID < noOwnerChange {
		return errors.New("output.owner_gid must be >= -1")
	}
	return nil
}

// within reports whether path equals parent or lives below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

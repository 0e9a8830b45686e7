package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCompression(); err != nil {
		return err
	}
	if err := c.validateDrafts(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCompression() error {
	if c.Compression.ImageQuality < 1 || c.Compression.ImageQuality > 100 {
		return errors.New("compression.image_quality must be between 1 and 100")
	}
	if c.Compression.MaxWidth <= 0 {
		return errors.New("compression.max_width must be positive")
	}
	if c.Compression.MaxHeight <= 0 {
		return errors.New("compression.max_height must be positive")
	}
	if c.Compression.FrameRate <= 0 {
		return errors.New("compression.frame_rate must be positive")
	}
	if c.Compression.BitrateFactor <= 0 || c.Compression.BitrateFactor > 1 {
		return errors.New("compression.bitrate_factor must be between 0 and 1")
	}
	if c.Compression.BitrateFloor <= 0 {
		return errors.New("compression.bitrate_floor must be positive")
	}
	if c.Compression.BitrateCeil < c.Compression.BitrateFloor {
		return errors.New("compression.bitrate_ceiling must be >= compression.bitrate_floor")
	}
	return nil
}

func (c *Config) validateDrafts() error {
	switch c.Drafts.Backend {
	case "sqlite", "file":
		return nil
	default:
		return fmt.Errorf("drafts.backend must be \"sqlite\" or \"file\", got %q", c.Drafts.Backend)
	}
}

func (c *Config) validateAPI() error {
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	return nil
}

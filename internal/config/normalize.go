package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCompression()
	c.normalizeDrafts()
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCompression() {
	c.Compression.FFmpegBinary = strings.TrimSpace(c.Compression.FFmpegBinary)
	if c.Compression.FFmpegBinary == "" {
		c.Compression.FFmpegBinary = defaultFFmpegBinary
	}
	c.Compression.FFprobeBinary = strings.TrimSpace(c.Compression.FFprobeBinary)
	if c.Compression.FFprobeBinary == "" {
		c.Compression.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Compression.ImageQuality == 0 {
		c.Compression.ImageQuality = defaultImageQuality
	}
	if c.Compression.MaxWidth == 0 {
		c.Compression.MaxWidth = defaultMaxWidth
	}
	if c.Compression.MaxHeight == 0 {
		c.Compression.MaxHeight = defaultMaxHeight
	}
	if c.Compression.FrameRate == 0 {
		c.Compression.FrameRate = defaultFrameRate
	}
	if c.Compression.BitrateFactor == 0 {
		c.Compression.BitrateFactor = defaultBitrateFactor
	}
	if c.Compression.BitrateFloor == 0 {
		c.Compression.BitrateFloor = defaultBitrateFloor
	}
	if c.Compression.BitrateCeil == 0 {
		c.Compression.BitrateCeil = defaultBitrateCeil
	}
}

func (c *Config) normalizeDrafts() {
	c.Drafts.Backend = strings.ToLower(strings.TrimSpace(c.Drafts.Backend))
	if c.Drafts.Backend == "" {
		c.Drafts.Backend = defaultDraftsBackend
	}
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("EASEL_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

const (
	defaultStagingDir = "~/.local/share/easel/staging"
	defaultOutputDir  = "~/.local/share/easel/compressed"
	defaultLogDir     = "~/.local/share/easel/logs"
	defaultDataDir    = "~/.local/share/easel"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultImageQuality  = 50
	defaultMaxWidth      = 1920
	defaultMaxHeight     = 1080
	defaultFrameRate     = 30
	defaultBitrateFactor = 0.7
	defaultBitrateFloor  = 500_000
	defaultBitrateCeil   = 2_500_000

	defaultDraftsBackend = "sqlite"

	defaultAPITimeoutSeconds = 30

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			DataDir:    defaultDataDir,
		},
		Compression: Compression{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			ImageQuality:  defaultImageQuality,
			MaxWidth:      defaultMaxWidth,
			MaxHeight:     defaultMaxHeight,
			FrameRate:     defaultFrameRate,
			BitrateFactor: defaultBitrateFactor,
			BitrateFloor:  defaultBitrateFloor,
			BitrateCeil:   defaultBitrateCeil,
		},
		Drafts: Drafts{
			Backend: defaultDraftsBackend,
		},
		API: API{
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

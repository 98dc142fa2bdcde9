package config

const (
	defaultInputDir          = "~/herald/in"
	defaultOutputDir         = "~/herald/out"
	defaultPublishDir        = "~/herald/samples"
	defaultDataDir           = "~/.local/share/herald"
	defaultLogDir            = "~/.local/share/herald/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultOutputFormat      = "riff-24khz-16bit-mono-pcm"
	defaultRequestTimeout    = 30
	defaultMaxAttempts       = 3
	defaultMinClipBytes      = 1024
	defaultLanguage          = "en"
	defaultRegion            = "AU"
	defaultVoice             = "en-AU-ElsieNeural"
	defaultStyle             = "Default"
	defaultRateMultiplier    = 1.25
	defaultTrailingSilenceMS = 25
	defaultSampleText        = "Welcome to herald"
	defaultNotifyTimeout     = 10

	placeholderKey    = "yourkey"
	placeholderRegion = "yourregion"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:   defaultInputDir,
			OutputDir:  defaultOutputDir,
			PublishDir: defaultPublishDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Speech: Speech{
			OutputFormat:   defaultOutputFormat,
			RequestTimeout: defaultRequestTimeout,
			MaxAttempts:    defaultMaxAttempts,
			MinClipBytes:   defaultMinClipBytes,
		},
		Synthesis: Synthesis{
			Language:          defaultLanguage,
			Region:            defaultRegion,
			Voice:             defaultVoice,
			Style:             defaultStyle,
			RateMultiplier:    defaultRateMultiplier,
			TrailingSilenceMS: defaultTrailingSilenceMS,
			SampleText:        defaultSampleText,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

// ecbaesconfig-section: Common Configuration
const (

	// ecbaesconfig-prop: name of the application | ecbaes
	PropAppName = "app.name"

	// ecbaesconfig-prop: extra config files that should be loaded
	PropConfigExtraFiles = "config.extra.files"
)

// ecbaesconfig-section: Cipher Configuration
const (

	// ecbaesconfig-prop: block transform engine, one of: auto, portable, accelerated | auto
	PropCipherEngine = "cipher.engine"

	// ecbaesconfig-prop: max number of goroutines used for parallel ECB, 0 means GOMAXPROCS | 0
	PropEcbParallelWorkers = "ecb.parallel.workers"

	// ecbaesconfig-prop: min number of blocks before ECB is processed in parallel | 1024
	PropEcbParallelMinBlocks = "ecb.parallel.min-blocks"
)

// ecbaesconfig-section: Logging Configuration
const (

	// ecbaesconfig-prop: log level | info
	PropLoggingLevel = "logging.level"

	// ecbaesconfig-prop: path to rolling log file
	PropLoggingRollingFile = "logging.rolling.file"

	// ecbaesconfig-prop: max age of log files in days, 0 means files are retained forever | 0
	PropLoggingRollingFileMaxAge = "logging.file.max-age"

	// ecbaesconfig-prop: max size of each log file (in mb) | 50
	PropLoggingRollingFileMaxSize = "logging.file.max-size"

	// ecbaesconfig-prop: max number of backup log files | 10
	PropLoggingRollingFileMaxBackups = "logging.file.max-backups"
)

// ecbaesconfig-default-start
func init() {
	SetDefProp(PropAppName, "ecbaes")
	SetDefProp(PropCipherEngine, "auto")
	SetDefProp(PropEcbParallelWorkers, 0)
	SetDefProp(PropEcbParallelMinBlocks, 1024)
	SetDefProp(PropLoggingLevel, "info")
	SetDefProp(PropLoggingRollingFileMaxAge, 0)
	SetDefProp(PropLoggingRollingFileMaxSize, 50)
	SetDefProp(PropLoggingRollingFileMaxBackups, 10)
}

// ecbaesconfig-default-end

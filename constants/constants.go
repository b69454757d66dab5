package constants

// Application

const (
	AppName      = "stagehand"
	EnvVarPrefix = "SH" // prefixed for environment variables in twelveFactorMode
)

// Environments

const (
	EnvironmentDev     = "dev"
	EnvironmentUat     = "uat"
	EnvVarEnvironment  = "ENVIRONMENT" // default environment for HTTP transfers without one in the request
	WarehouseBigQuery  = "bigquery"
	WarehouseSnowflake = "snowflake"
)

// Intake

const (
	DefaultLandingBucket      = "xref-landing-zone"
	DefaultExtTablesBucket    = "xref-ext-tables"
	EnvVarConfigBucket        = "CONFIG_BUCKET"
	EnvVarDeadLetterBucket    = "DEAD_LETTER_BUCKET"
	EnvVarLandingBucket       = EnvVarPrefix + "_LANDING_BUCKET"
	EnvVarExtTablesBucket     = EnvVarPrefix + "_EXT_TABLES_BUCKET"
	EnvVarStagingDir          = EnvVarPrefix + "_STAGING_DIR"
	EnvVarAwsRegion           = "AWS_REGION"
	ConfigFolder              = "config/"
	ConfigFileExt             = ".json"
	DeadLetterFolder          = "error/"
	IngestionPartitionKey     = "ingestion_timestamp"
	TimeFormatIngestion       = "20060102_150405" // partition value in accepted object paths
	TimeFormatIngestionRegex  = "[0-9]{8}_[0-9]{6}"
	TimeFormatDeadLetter      = "20060102150405" // prefix of dead-lettered object names
	TimeFormatDeadLetterRegex = "[0-9]{14}"
)

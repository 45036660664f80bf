package types

type RunMode string

const (
	// ModeLocal runs the API server together with the in-process sweep scheduler
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server; sweeps are triggered through the cron endpoints
	ModeAPI RunMode = "api"
	// ModeAWSLambdaAPI runs the API server behind the AWS Lambda proxy
	ModeAWSLambdaAPI RunMode = "aws_lambda_api"
	// ModeTemporalWorker runs the temporal worker that executes scheduled sweeps
	ModeTemporalWorker RunMode = "temporal_worker"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

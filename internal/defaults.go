package internal

const (
	DefaultOutputDir           = "./chat-report"
	DefaultFormat              = "text"
	DefaultInternalLinksDomain = "https://t.me/"
	DefaultTimezone            = "UTC"
	DefaultLogLevel            = "info"

	// DefaultUserpicsSliceSize is the number of profile photos handed to a writer at once
	DefaultUserpicsSliceSize = 100
	// DefaultMessagesSliceSize is the number of messages handed to a writer at once
	DefaultMessagesSliceSize = 100

	// EnvPrefix prefixes every environment variable read by LoadConfig
	EnvPrefix = "CHAT_REPORT_"
)

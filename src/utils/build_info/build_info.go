package build_info

// Set at build time with -ldflags "-X github.com/trackium/trackd/src/utils/build_info.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
)

package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config) {
	version := GetVersion()
	build := GetBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		`  .d8888b.   .d88888b.  8888888 888b    888`,
		` d88P  Y88b d88P" "Y88b   888   8888b   888`,
		` 888    888 888     888   888   88888b  888`,
		` 888        888     888   888   888Y88b 888`,
		` 888        888     888   888   888 Y88b888`,
		` 888    888 888     888   888   888  Y88888`,
		` Y88b  d88P Y88b. .d88P   888   888   Y8888`,
		`  "Y8888P"   "Y88888P"  8888888 888    Y888`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Coinfolio - Crypto Portfolio & Market Analysis%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvPad := 14
	kv := func(key, value string) {
		fmt.Fprintf(os.Stderr, "  %-*s %s\n", kvPad, key+":", value)
	}
	kv("version", version)
	kv("build", build)
	kv("environment", config.Environment)
	kv("service", serviceURL)
	kv("data path", config.Storage.Path)
	kv("log level", config.Logging.Level)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
}

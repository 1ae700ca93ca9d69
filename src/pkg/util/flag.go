package util

import (
	"os"
	"sort"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

var RequiredFlags = map[*string]string{}

// RequiredFlag(imagePtr, "--image"), can also use -image and image
func RequiredFlag(flagPointer *string, cliName string) {
	name := normalizeFlagName(cliName)
	RequiredFlags[flagPointer] = name
}

func normalizeFlagName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "--") {
		return s
	}
	if strings.HasPrefix(s, "-") {
		// single dash → double dash
		return "-" + s
	}
	return "--" + s
}

// MissingFlags returns the registered flags left blank, sorted by name.
func MissingFlags() []string {
	var missing []string
	for flagPointer, cliName := range RequiredFlags {
		if flagPointer == nil || strings.TrimSpace(*flagPointer) == "" {
			missing = append(missing, cliName)
		}
	}
	sort.Strings(missing)
	return missing
}

// Ensure logs every missing required flag and exits(1) if any were missing.
func EnsureFlags() {
	missing := MissingFlags()
	for _, cliName := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
	}
	if len(missing) > 0 {
		os.Exit(1)
	}
}

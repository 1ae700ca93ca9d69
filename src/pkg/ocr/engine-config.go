package ocr

import (
	"fmt"
	"strconv"
	"strings"
)

// EngineConfig selects how the engine reads a page.
type EngineConfig struct {
	PageSegMode PageSegMode       `json:"page_seg_mode"`
	EngineMode  EngineMode        `json:"engine_mode"`
	Languages   []string          `json:"languages"`
	Variables   map[string]string `json:"variables,omitempty"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PageSegMode: PSMBlock,
		EngineMode:  OEMDefault,
		Languages:   []string{"eng"},
	}
}

var namedPageSegModes = map[string]PageSegMode{
	"auto":   PSMAuto,
	"column": PSMSingleCol,
	"block":  PSMBlock,
	"line":   PSMSingleLine,
	"word":   PSMSingleWord,
	"sparse": PSMSparseText,
	"raw":    PSMRawLine,
}

// ParsePageSegMode accepts a mode name (block, line, sparse, ...) or its number.
func ParsePageSegMode(value string) (PageSegMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if mode, ok := namedPageSegModes[normalized]; ok {
		return mode, nil
	}
	number, err := strconv.Atoi(normalized)
	if err != nil || number < 0 || number > int(PSMRawLine) {
		return 0, fmt.Errorf("unknown page segmentation mode '%s'", value)
	}
	return PageSegMode(number), nil
}

func parseEngineMode(value string) (EngineMode, error) {
	number, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || number < int(OEMLegacy) || number > int(OEMDefault) {
		return 0, fmt.Errorf("unknown engine mode '%s'", value)
	}
	return EngineMode(number), nil
}

/*
ParseConfigString reads a Tesseract-style option string on top of the defaults,
e.g. "--oem 3 --psm 6", "--psm sparse -l eng+spa", or "-c preserve_interword_spaces=1".
*/
func ParseConfigString(options string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	fields := strings.Fields(options)
	for i := 0; i < len(fields); i++ {
		flag := fields[i]
		if i+1 >= len(fields) {
			return cfg, fmt.Errorf("option '%s' needs a value", flag)
		}
		value := fields[i+1]
		i++

		switch flag {
		case "--psm":
			mode, err := ParsePageSegMode(value)
			if err != nil {
				return cfg, err
			}
			cfg.PageSegMode = mode
		case "--oem":
			mode, err := parseEngineMode(value)
			if err != nil {
				return cfg, err
			}
			cfg.EngineMode = mode
		case "-l":
			cfg.Languages = strings.Split(value, "+")
		case "-c":
			key, val, found := strings.Cut(value, "=")
			if !found || key == "" {
				return cfg, fmt.Errorf("variable '%s' is not key=value", value)
			}
			if cfg.Variables == nil {
				cfg.Variables = map[string]string{}
			}
			cfg.Variables[key] = val
		default:
			return cfg, fmt.Errorf("unknown option '%s'", flag)
		}
	}
	return cfg, nil
}

// String renders the config back into option-string form.
func (c EngineConfig) String() string {
	parts := []string{
		"--oem", strconv.Itoa(int(c.EngineMode)),
		"--psm", strconv.Itoa(int(c.PageSegMode)),
	}
	if len(c.Languages) > 0 {
		parts = append(parts, "-l", strings.Join(c.Languages, "+"))
	}
	return strings.Join(parts, " ")
}

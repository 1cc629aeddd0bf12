// Package render encodes a pass report for output.
package render

import (
	"encoding/json"
	"io"

	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/pass"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"

	ErrUnknownFormat = errors.ErrorCode("render_unknown_format")
	ErrEncodeFailed  = errors.ErrorCode("render_encode_failed")
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatYAML, FormatText}

// IsValidFormat reports whether name is one of Formats.
func IsValidFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}

	return false
}

// Encode writes report to w in the given format.
func Encode(w io.Writer, report *pass.Report, format string) error {
	errFactory := errors.New()

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(report); err == nil {
			err = enc.Close()
		}
	case FormatText:
		_, err = io.WriteString(w, Text(report))
	default:
		return errFactory.WithData(ErrUnknownFormat, format)
	}

	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	return nil
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for annotation formats other than detection and segmentation.
var ErrUnknownFormat = errors.New("unknown annotation format")

// Format selects which annotation variant a JSON document holds.
type Format string

const (
	FormatDetection    Format = "detection"
	FormatSegmentation Format = "segmentation"
)

// ParseFormat resolves a format name. Matching ignores case and surrounding
// whitespace, so the legacy task names "Detection " and "Segmentation " are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FormatDetection):
		return FormatDetection, nil
	case string(FormatSegmentation):
		return FormatSegmentation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Kind returns the item variant stored by this format.
func (f Format) Kind() Kind {
	if f == FormatSegmentation {
		return KindSegmentation
	}
	return KindRect
}

package processor

import "errors"

var (
	// ErrSegmentation is returned when content cannot be split into sentences.
	ErrSegmentation = errors.New("sentence segmentation failed")

	// ErrTokenization is returned when a sentence cannot be split into words.
	ErrTokenization = errors.New("tokenization failed")
)

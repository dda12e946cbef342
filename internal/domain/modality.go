package domain

import "fmt"

// Modality selects which extractor handles a pipeline run. It is a
// required field: callers must send one of the known tags, there is no
// silent default.
type Modality string

const (
	ModalityImage Modality = "image"
	ModalityText  Modality = "text"
	ModalityWeb   Modality = "web"
)

// ParseModality validates a modality tag from an untrusted caller.
func ParseModality(s string) (Modality, error) {
	switch Modality(s) {
	case ModalityImage, ModalityText, ModalityWeb:
		return Modality(s), nil
	case "":
		return "", fmt.Errorf("modality is required (one of image, text, web)")
	default:
		return "", fmt.Errorf("unknown modality %q (one of image, text, web)", s)
	}
}

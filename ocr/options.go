package ocr

import "strconv"

// WithTesseractPSM selects Tesseract's page segmentation mode for the
// input. Mode values are documented at
// https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method.
func WithTesseractPSM(mode int) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_pageseg_mode"] = strconv.Itoa(mode)
	}
}

// WithTesseractWhitelist limits recognition to the given character set.
func WithTesseractWhitelist(chars string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_char_whitelist"] = chars
	}
}

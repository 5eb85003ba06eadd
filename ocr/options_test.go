package ocr

import "testing"

func TestTesseractOptions(t *testing.T) {
	in := Input{}
	WithTesseractPSM(6)(&in)
	if got := in.Metadata["tessedit_pageseg_mode"]; got != "6" {
		t.Fatalf("page segmentation mode = %q, want 6", got)
	}
	WithTesseractWhitelist("ABC")(&in)
	if got := in.Metadata["tessedit_char_whitelist"]; got != "ABC" {
		t.Fatalf("whitelist = %q, want ABC", got)
	}
}

func TestTesseractOptionsShareMetadata(t *testing.T) {
	in := Input{}
	WithTesseractPSM(3)(&in)
	WithTesseractWhitelist("0123456789")(&in)
	if len(in.Metadata) != 2 {
		t.Fatalf("options should accumulate in one metadata map, got %+v", in.Metadata)
	}
}

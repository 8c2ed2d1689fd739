package constants

// ValidationStatus is the outcome stored in validations.status.
type ValidationStatus string

// Stable values (store these exact strings in DB).
const (
	ValidationPass ValidationStatus = "PASS"
	ValidationFail ValidationStatus = "FAIL"
)

// ExtractionMethod records which path produced the extracted text.
type ExtractionMethod string

const (
	MethodTextLayer   ExtractionMethod = "text_layer"  // PDF tier 1
	MethodPDFOCR      ExtractionMethod = "pdf_ocr"     // PDF tier 2
	MethodImageOCR    ExtractionMethod = "image_ocr"   // standalone image
	MethodUnsupported ExtractionMethod = "unsupported" // recognition disabled
	MethodNone        ExtractionMethod = "none"        // every path failed
)

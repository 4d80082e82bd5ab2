// Package ocr reads text from screenshots using Tesseract through gosseract.
//
// Every box returned by this package is a screenspace.BBox in the space of the
// screenshot it came from, so OCR results can be mapped between an original
// capture and its resized copies like any other detection.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// The default language is English ("eng"). Other languages are selected by
// their Tesseract codes ("deu", "fra", "chi_sim", ...).
//
// # Functions
//
//   - ExtractText: full-screenshot OCR with word boxes
//   - ExtractTextFromRegion: OCR of one box, word boxes reported in the parent space
//   - DetectTextRegions: block-level text locations without the text
//
// Images are handed to Tesseract as encoded bytes; no temporary files are
// written.
//
// # Error Handling
//
// Functions return errors for unsupported language codes, undecodable images
// and Tesseract initialization failures. If word boxes cannot be read,
// ExtractText still returns the full text with an empty Words slice.
package ocr

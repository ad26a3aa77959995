package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"
)

const (
	plainTextMIMETypeConstant          = "text/plain"
	commaSeparatedMIMETypeConstant     = "text/csv"
	tabSeparatedMIMETypeConstant       = "text/tab-separated-values"
	emptyContentMIMETypeConstant       = "inode/x-empty"
	sniffLengthBytesConstant           = 3072
	openFileErrorTemplateConstant      = "unable to open %s: %w"
	readHeaderErrorTemplateConstant    = "unable to read %s: %w"
	detectContentErrorTemplateConstant = "unable to detect content type of %s: %w"
)

// Detection describes the sniffed content category of a file header.
type Detection struct {
	MIMEType string
	Textual  bool
}

// Detector sniffs the content category from the leading bytes of a file.
type Detector interface {
	Detect(header []byte) (Detection, error)
}

// textualMIMETypes lists the sniffed types treated as plain text. Delimited text is included because
// YAML flow sequences often sniff as CSV.
var textualMIMETypes = []string{
	plainTextMIMETypeConstant,
	commaSeparatedMIMETypeConstant,
	tabSeparatedMIMETypeConstant,
}

// MimetypeDetector implements Detector with signature sniffing from gabriel-vasile/mimetype.
type MimetypeDetector struct{}

// Detect reports the detected MIME type and whether it is plain text.
func (MimetypeDetector) Detect(header []byte) (Detection, error) {
	detected := mimetype.Detect(header)
	return Detection{
		MIMEType: detected.String(),
		Textual:  isTextual(detected),
	}, nil
}

func isTextual(detected *mimetype.MIME) bool {
	for _, textualMIMEType := range textualMIMETypes {
		if detected.Is(textualMIMEType) {
			return true
		}
	}
	return false
}

// Classification is the verdict for a single file.
type Classification struct {
	MIMEType string
	Textual  bool
	// StructuredData is only meaningful when Textual is set.
	StructuredData bool
}

// Classifier determines whether files are textual and whether their text parses as a YAML document.
type Classifier struct {
	detector Detector
}

// NewClassifier constructs a Classifier. A nil detector selects MimetypeDetector.
func NewClassifier(detector Detector) *Classifier {
	if detector == nil {
		detector = MimetypeDetector{}
	}
	return &Classifier{detector: detector}
}

// Classify inspects the file at path. Errors are returned only when the file cannot be read;
// content that fails to decode is reported as not structured.
func (classifier *Classifier) Classify(path string) (Classification, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return Classification{}, fmt.Errorf(openFileErrorTemplateConstant, path, openError)
	}
	defer fileHandle.Close()

	header := make([]byte, sniffLengthBytesConstant)
	headerLength, readError := io.ReadFull(fileHandle, header)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return Classification{}, fmt.Errorf(readHeaderErrorTemplateConstant, path, readError)
	}
	header = header[:headerLength]

	if len(header) == 0 {
		return Classification{MIMEType: emptyContentMIMETypeConstant, Textual: true, StructuredData: true}, nil
	}

	detection, detectionError := classifier.detector.Detect(header)
	if detectionError != nil {
		return Classification{}, fmt.Errorf(detectContentErrorTemplateConstant, path, detectionError)
	}

	classification := Classification{MIMEType: detection.MIMEType, Textual: detection.Textual}
	if !classification.Textual {
		return classification, nil
	}

	classification.StructuredData = ParsesAsDocument(io.MultiReader(bytes.NewReader(header), fileHandle))
	return classification, nil
}

// ParsesAsDocument reports whether reader holds at most one YAML document that decodes without error.
// Empty input is the empty document and parses.
func ParsesAsDocument(reader io.Reader) bool {
	decoder := yaml.NewDecoder(reader)

	var document yaml.Node
	if decodeError := decoder.Decode(&document); decodeError != nil {
		return errors.Is(decodeError, io.EOF)
	}

	var trailingDocument yaml.Node
	trailingError := decoder.Decode(&trailingDocument)
	return errors.Is(trailingError, io.EOF)
}

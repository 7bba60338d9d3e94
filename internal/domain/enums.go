package domain

// SessionStatus tracks the lifecycle of a quote session.
type SessionStatus string

const (
	SessionStatusEditing   SessionStatus = "editing"
	SessionStatusFinalized SessionStatus = "finalized"
)

// ImageType identifies the accepted upload content types.
type ImageType string

const (
	ImageTypeJPEG ImageType = "jpeg"
	ImageTypePNG  ImageType = "png"
)

// ImageTypeFromContentType maps an HTTP content type to an ImageType.
func ImageTypeFromContentType(ct string) (ImageType, bool) {
	switch ct {
	case "image/jpeg", "image/jpg":
		return ImageTypeJPEG, true
	case "image/png":
		return ImageTypePNG, true
	default:
		return "", false
	}
}

// DefaultTaxRatePercent is the document-level GST rate applied unless a
// session overrides it.
const DefaultTaxRatePercent = 18.0

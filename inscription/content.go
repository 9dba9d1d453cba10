package inscription

import (
	"encoding/hex"
	"strings"

	"github.com/inscription-c/ordinscribe/constants"
)

// DetectionKind tells which rule picked a content type.
type DetectionKind int

const (
	DetectionSignature DetectionKind = iota + 1
	DetectionTextHeuristic
	DetectionFallback
	DetectionExplicit
)

func (k DetectionKind) String() string {
	switch k {
	case DetectionSignature:
		return "signature"
	case DetectionTextHeuristic:
		return "text"
	case DetectionFallback:
		return "fallback"
	case DetectionExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Detection is the result of sniffing a body.
type Detection struct {
	Kind        DetectionKind
	ContentType constants.ContentType
}

type signature struct {
	prefix      string
	contentType constants.ContentType
}

// signatures is evaluated in order against the lower case hex of the first
// four body bytes; the first prefix match wins.
var signatures = []signature{
	{"ffd8ff", constants.ContentTypeImageJpeg},
	{"89504e47", constants.ContentTypeImagePng},
	{"47494638", constants.ContentTypeImageGif},
	{"25504446", constants.ContentTypePdf},
	{"494433", constants.ContentTypeAudioMpeg},
	{"fff3", constants.ContentTypeAudioMpeg},
	{"fff2", constants.ContentTypeAudioMpeg},
	{"4944", constants.ContentTypeAudioMpeg},
	{"000001", constants.ContentTypeVideoMpeg},
	{"3c3f786d", constants.ContentTypeImageSvgXml},
	{"3c737667", constants.ContentTypeImageSvgXml},
	{"7b", constants.ContentTypeJson},
	{"5b", constants.ContentTypeJson},
}

// DetectContentType sniffs body. It never fails; unknown content ends up as
// application/octet-stream.
//
// The table is a heuristic: any body starting with '{' is reported as JSON
// whether or not it parses. Callers that know better should pass
// WithContentType to Encode.
func DetectContentType(body []byte) Detection {
	if len(body) == 0 {
		return Detection{Kind: DetectionFallback, ContentType: constants.ContentTypeOctetStream}
	}

	head := body
	if len(head) > 4 {
		head = head[:4]
	}
	headHex := hex.EncodeToString(head)
	for _, sig := range signatures {
		if strings.HasPrefix(headHex, sig.prefix) {
			return Detection{Kind: DetectionSignature, ContentType: sig.contentType}
		}
	}

	if isPrintableText(body) {
		return Detection{Kind: DetectionTextHeuristic, ContentType: constants.ContentTypeTextPlainUtf8}
	}
	return Detection{Kind: DetectionFallback, ContentType: constants.ContentTypeOctetStream}
}

func isPrintableText(body []byte) bool {
	if len(body) > constants.TextSniffLen {
		body = body[:constants.TextSniffLen]
	}
	for _, b := range body {
		switch {
		case b >= 0x20 && b <= 0x7e:
		case b == '\n', b == '\r', b == '\t':
		default:
			return false
		}
	}
	return true
}

package constants

const (
	AppName    = "ordinscribe"
	ProtocolId = "ord"

	// DustLimit is the smallest reveal output, in sats, that relay policy accepts.
	DustLimit = 546

	// WitnessPad and TxPad are the byte allowances added to the content length
	// when quoting the reveal fee.
	WitnessPad = 100
	TxPad      = 200

	// WitnessScaleFactor discounts witness bytes relative to base bytes.
	WitnessScaleFactor = 4

	// MaxChunkSize is the largest single data push allowed in a tapscript.
	MaxChunkSize = 520

	// TextSniffLen is how many leading bytes the text classifier inspects.
	TextSniffLen = 1024

	OneBtc = 100_000_000
)

type ContentType string

func (t ContentType) Bytes() []byte {
	return []byte(t)
}

func (t ContentType) String() string {
	return string(t)
}

const (
	ContentTypeJson          ContentType = "application/json"
	ContentTypeOctetStream   ContentType = "application/octet-stream"
	ContentTypePdf           ContentType = "application/pdf"
	ContentTypeAudioMpeg     ContentType = "audio/mpeg"
	ContentTypeImageGif      ContentType = "image/gif"
	ContentTypeImageJpeg     ContentType = "image/jpeg"
	ContentTypeImagePng      ContentType = "image/png"
	ContentTypeImageSvgXml   ContentType = "image/svg+xml"
	ContentTypeTextPlainUtf8 ContentType = "text/plain;charset=utf-8"
	ContentTypeVideoMpeg     ContentType = "video/mpeg"
)

const (
	ContentEncodingBrotli = "br"
)

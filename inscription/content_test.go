package inscription

import (
	"testing"

	"github.com/inscription-c/ordinscribe/constants"
	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want Detection
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, Detection{DetectionSignature, constants.ContentTypeImageJpeg}},
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}, Detection{DetectionSignature, constants.ContentTypeImagePng}},
		{"gif", []byte("GIF89a"), Detection{DetectionSignature, constants.ContentTypeImageGif}},
		{"pdf", []byte("%PDF-1.7"), Detection{DetectionSignature, constants.ContentTypePdf}},
		{"mp3 id3", []byte("ID3\x04\x00"), Detection{DetectionSignature, constants.ContentTypeAudioMpeg}},
		{"mp3 frame", []byte{0xff, 0xf3, 0x44, 0xc4}, Detection{DetectionSignature, constants.ContentTypeAudioMpeg}},
		{"mpeg video", []byte{0x00, 0x00, 0x01, 0xba}, Detection{DetectionSignature, constants.ContentTypeVideoMpeg}},
		{"svg xml", []byte(`<?xml version="1.0"?><svg/>`), Detection{DetectionSignature, constants.ContentTypeImageSvgXml}},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), Detection{DetectionSignature, constants.ContentTypeImageSvgXml}},
		{"json object", []byte(`{"a":1}`), Detection{DetectionSignature, constants.ContentTypeJson}},
		{"json array", []byte(`[1,2]`), Detection{DetectionSignature, constants.ContentTypeJson}},
		{"brace but not json", []byte(`{not json`), Detection{DetectionSignature, constants.ContentTypeJson}},
		{"text", []byte("hello world\r\n\tbye"), Detection{DetectionTextHeuristic, constants.ContentTypeTextPlainUtf8}},
		{"binary", []byte{0x01, 0x02, 0x03, 0x04, 0x05}, Detection{DetectionFallback, constants.ContentTypeOctetStream}},
		{"empty", nil, Detection{DetectionFallback, constants.ContentTypeOctetStream}},
		{"single byte", []byte{0x00}, Detection{DetectionFallback, constants.ContentTypeOctetStream}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.body))
		})
	}
}

func TestDetectContentTypeTextWindow(t *testing.T) {
	// only the first KiB is classified
	body := append(repeatText("a", constants.TextSniffLen), 0x00, 0x01)
	assert.Equal(t, DetectionTextHeuristic, DetectContentType(body).Kind)

	body = append(repeatText("a", constants.TextSniffLen-1), 0x00)
	assert.Equal(t, DetectionFallback, DetectContentType(body).Kind)
}

func TestDetectContentTypeOrder(t *testing.T) {
	// "ID3" is listed before the shorter "ID" prefix, both map to audio
	assert.Equal(t, constants.ContentTypeAudioMpeg, DetectContentType([]byte("IDxx")).ContentType)
}

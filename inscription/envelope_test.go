package inscription

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
	"gotest.tools/assert"
)

var testXOnly = bytes.Repeat([]byte{0x02}, 32)

func roundTrip(t *testing.T, env *Envelope) *Envelope {
	t.Helper()
	script, err := env.Script(testXOnly)
	assert.NilError(t, err)
	parsed, err := ParseEnvelope(script)
	assert.NilError(t, err)
	return parsed
}

func TestEnvelopeRoundTrip(t *testing.T) {
	bodies := map[string][]byte{
		"png 1000":          pngBody(1000),
		"exact chunk":       pngBody(constants.MaxChunkSize),
		"several chunks":    pngBody(3*constants.MaxChunkSize + 17),
		"single byte tail":  append(pngBody(constants.MaxChunkSize), 0x05),
		"single small byte": {0x01},
		"single zero byte":  {0x00},
		"text":              []byte("hello inscription"),
		"empty":             {},
		"larger than 10k":   pngBody(25_000),
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			env, err := Encode(body)
			assert.NilError(t, err)
			parsed := roundTrip(t, env)
			assert.Assert(t, bytes.Equal(body, parsed.Body))
			assert.Equal(t, env.ContentType, parsed.ContentType)
			assert.Equal(t, "", parsed.ContentEncoding)
		})
	}
}

func TestEnvelopeScriptLayout(t *testing.T) {
	env, err := Encode([]byte{0x01}, WithContentType("text/plain"))
	assert.NilError(t, err)
	script, err := env.Script(testXOnly)
	assert.NilError(t, err)

	want := []byte{txscript.OP_DATA_32}
	want = append(want, testXOnly...)
	want = append(want, txscript.OP_CHECKSIG, txscript.OP_FALSE, txscript.OP_IF, txscript.OP_DATA_3, 'o', 'r', 'd')
	want = append(want, txscript.OP_DATA_1, 0x01, byte(len("text/plain")))
	want = append(want, []byte("text/plain")...)
	want = append(want, txscript.OP_0, txscript.OP_DATA_1, 0x01, txscript.OP_ENDIF)
	assert.DeepEqual(t, want, script)
}

func TestEnvelopeCompression(t *testing.T) {
	body := repeatText("the same line again and again\n", 200)
	env, err := Encode(body, WithCompress(true))
	assert.NilError(t, err)
	assert.Equal(t, constants.ContentEncodingBrotli, env.ContentEncoding)
	assert.Equal(t, constants.ContentTypeTextPlainUtf8, env.ContentType)
	assert.Assert(t, len(env.Body) < len(body))

	parsed := roundTrip(t, env)
	assert.Equal(t, constants.ContentEncodingBrotli, parsed.ContentEncoding)
	assert.Assert(t, bytes.Equal(env.Body, parsed.Body))

	// incompressible bodies are kept as is
	small := []byte{0x9a}
	env, err = Encode(small, WithCompress(true))
	assert.NilError(t, err)
	assert.Equal(t, "", env.ContentEncoding)
	assert.Assert(t, bytes.Equal(small, env.Body))
}

func TestEnvelopeMetadata(t *testing.T) {
	metadata, err := MetadataFromJSON([]byte(`{"name":"ordinscribe","tags":["a","b"],"n":1}`))
	assert.NilError(t, err)

	var decoded map[string]interface{}
	assert.NilError(t, codec.NewDecoderBytes(metadata, &codec.CborHandle{}).Decode(&decoded))
	assert.Equal(t, "ordinscribe", decoded["name"])

	env, err := Encode([]byte(`{"a":1}`), WithMetadata(metadata))
	assert.NilError(t, err)
	parsed := roundTrip(t, env)
	assert.Assert(t, bytes.Equal(metadata, parsed.Metadata))
	assert.Equal(t, constants.ContentTypeJson, parsed.ContentType)

	// metadata longer than one push is chunked and joined again
	big := make(map[string]string)
	for i := 0; i < 100; i++ {
		big[string(rune('a'+i%26))+string(rune('a'+i/26))] = "0123456789"
	}
	var bigCbor []byte
	assert.NilError(t, codec.NewEncoderBytes(&bigCbor, &codec.CborHandle{}).Encode(big))
	assert.Assert(t, len(bigCbor) > constants.MaxChunkSize)
	env, err = Encode([]byte("x"), WithMetadata(bigCbor))
	assert.NilError(t, err)
	parsed = roundTrip(t, env)
	assert.Assert(t, bytes.Equal(bigCbor, parsed.Metadata))
}

func TestEnvelopeInvalidMetadata(t *testing.T) {
	_, err := MetadataFromJSON([]byte(`{"a":`))
	assert.Assert(t, errors.Is(err, ErrInvalidMetadata))

	_, err = Encode([]byte("x"), WithMetadata([]byte{0x62, 0x61}))
	assert.Assert(t, errors.Is(err, ErrInvalidMetadata))
}

func TestParseEnvelopeErrors(t *testing.T) {
	_, err := ParseEnvelope([]byte{txscript.OP_TRUE})
	assert.Assert(t, errors.Is(err, ErrInvalidEnvelope))

	env, err := Encode([]byte("abc"))
	assert.NilError(t, err)
	script, err := env.Script(testXOnly)
	assert.NilError(t, err)
	_, err = ParseEnvelope(script[:len(script)-1])
	assert.Assert(t, errors.Is(err, ErrInvalidEnvelope))
}

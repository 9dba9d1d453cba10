package inscription

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/btcsuite/btcd/txscript"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// Envelope is the content carried by the reveal script. It is never mutated
// after Encode returns.
type Envelope struct {
	ContentType     constants.ContentType
	ContentEncoding string
	Metadata        []byte
	Body            []byte

	// Detection records how ContentType was chosen. It is not part of the
	// script and is zero for parsed envelopes.
	Detection Detection
}

type encodeOptions struct {
	contentType string
	compress    bool
	metadata    []byte
}

// EncodeOption customizes Encode.
type EncodeOption func(*encodeOptions)

// WithContentType skips sniffing and tags the body with contentType.
// An empty value keeps sniffing enabled.
func WithContentType(contentType string) EncodeOption {
	return func(o *encodeOptions) {
		o.contentType = contentType
	}
}

// WithCompress brotli compresses the body when that makes it smaller.
func WithCompress(compress bool) EncodeOption {
	return func(o *encodeOptions) {
		o.compress = compress
	}
}

// WithMetadata attaches CBOR encoded metadata under tag 5.
func WithMetadata(cbor []byte) EncodeOption {
	return func(o *encodeOptions) {
		o.metadata = cbor
	}
}

// Encode builds the envelope for body. The content type is sniffed from the
// uncompressed body unless WithContentType is given.
func Encode(body []byte, opts ...EncodeOption) (*Envelope, error) {
	options := &encodeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	env := &Envelope{
		Body: append([]byte(nil), body...),
	}
	if options.contentType != "" {
		env.Detection = Detection{Kind: DetectionExplicit, ContentType: constants.ContentType(options.contentType)}
	} else {
		env.Detection = DetectContentType(body)
	}
	env.ContentType = env.Detection.ContentType

	if len(options.metadata) > 0 {
		if err := checkMetadata(options.metadata); err != nil {
			return nil, err
		}
		env.Metadata = append([]byte(nil), options.metadata...)
	}

	if options.compress && len(body) > 0 {
		compressed, err := compressBody(body)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(body) {
			env.Body = compressed
			env.ContentEncoding = constants.ContentEncodingBrotli
		}
	}
	return env, nil
}

func compressBody(body []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	bw := brotli.NewWriterOptions(buf, brotli.WriterOptions{Quality: 11, LGWin: 24})
	if _, err := bw.Write(body); err != nil {
		return nil, errors.Wrap(ErrCompression, err.Error())
	}
	if err := bw.Close(); err != nil {
		return nil, errors.Wrap(ErrCompression, err.Error())
	}
	compressed := buf.Bytes()

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return nil, errors.Wrap(ErrCompression, err.Error())
	}
	if !bytes.Equal(body, decompressed) {
		return nil, ErrCompression
	}
	return compressed, nil
}

// MetadataFromJSON converts a JSON document into the CBOR form carried in
// the envelope.
func MetadataFromJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(ErrInvalidMetadata, err.Error())
	}
	var out []byte
	if err := codec.NewEncoderBytes(&out, &codec.CborHandle{}).Encode(v); err != nil {
		return nil, errors.Wrap(ErrInvalidMetadata, err.Error())
	}
	return out, nil
}

func checkMetadata(cbor []byte) error {
	var v interface{}
	if err := codec.NewDecoderBytes(cbor, &codec.CborHandle{}).Decode(&v); err != nil {
		return errors.Wrap(ErrInvalidMetadata, err.Error())
	}
	return nil
}

// Script returns the tapscript leaf for the envelope:
//
//	<xonly> OP_CHECKSIG OP_FALSE OP_IF "ord" 0x01 <content-type>
//	[0x05 <metadata>...] [0x09 <encoding>] OP_0 <body chunks> OP_ENDIF
//
// Pushes are appended without the builder's MaxScriptSize check since
// witness scripts are only bounded by transaction weight.
func (e *Envelope) Script(xOnlyPubKey []byte) ([]byte, error) {
	script, err := txscript.NewScriptBuilder().
		AddData(xOnlyPubKey).
		AddOp(txscript.OP_CHECKSIG).
		AddOp(txscript.OP_FALSE).
		AddOp(txscript.OP_IF).
		AddData([]byte(constants.ProtocolId)).
		Script()
	if err != nil {
		return nil, err
	}

	if script, err = appendField(script, TagContentType, e.ContentType.Bytes()); err != nil {
		return nil, err
	}
	for _, chunk := range chunks(e.Metadata) {
		if script, err = appendField(script, TagMetadata, chunk); err != nil {
			return nil, err
		}
	}
	if e.ContentEncoding != "" {
		if script, err = appendField(script, TagContentEncoding, []byte(e.ContentEncoding)); err != nil {
			return nil, err
		}
	}

	script = append(script, txscript.OP_0)
	for _, chunk := range chunks(e.Body) {
		if script, err = appendPush(script, chunk); err != nil {
			return nil, err
		}
	}
	return append(script, txscript.OP_ENDIF), nil
}

func chunks(data []byte) [][]byte {
	var res [][]byte
	for i := 0; i < len(data); i += constants.MaxChunkSize {
		end := i + constants.MaxChunkSize
		if end > len(data) {
			end = len(data)
		}
		res = append(res, data[i:end])
	}
	return res
}

func appendField(script []byte, tag TagType, value []byte) ([]byte, error) {
	script = append(script, txscript.OP_DATA_1, tag.Byte())
	return appendPush(script, value)
}

// appendPush writes data as a plain push. Single bytes are always written as
// OP_DATA_1 so that values up to 16 are never turned into OP_N.
func appendPush(script, data []byte) ([]byte, error) {
	if len(data) == 1 {
		return append(script, txscript.OP_DATA_1, data[0]), nil
	}
	push, err := txscript.NewScriptBuilder().AddFullData(data).Script()
	if err != nil {
		return nil, err
	}
	return append(script, push...), nil
}

// ParseEnvelope decodes the first envelope found in a leaf script.
func ParseEnvelope(script []byte) (*Envelope, error) {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		if tokenizer.Opcode() != txscript.OP_IF {
			continue
		}
		if !tokenizer.Next() {
			break
		}
		if !isPushBytes(tokenizer.Opcode()) || !bytes.Equal(tokenizer.Data(), []byte(constants.ProtocolId)) {
			continue
		}
		payload, err := readPayload(&tokenizer)
		if err != nil {
			return nil, err
		}
		return fromPayload(payload)
	}
	if err := tokenizer.Err(); err != nil {
		return nil, errors.Wrap(ErrInvalidEnvelope, err.Error())
	}
	return nil, errors.Wrap(ErrInvalidEnvelope, "no envelope")
}

func readPayload(tokenizer *txscript.ScriptTokenizer) ([][]byte, error) {
	payload := make([][]byte, 0)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		switch {
		case op == txscript.OP_ENDIF:
			return payload, nil
		case op == txscript.OP_0:
			payload = append(payload, []byte{})
		case op == txscript.OP_1NEGATE:
			payload = append(payload, []byte{0x81})
		case op >= txscript.OP_1 && op <= txscript.OP_16:
			payload = append(payload, []byte{op - (txscript.OP_1 - 1)})
		case isPushBytes(op):
			payload = append(payload, tokenizer.Data())
		default:
			return nil, errors.Wrapf(ErrInvalidEnvelope, "unexpected opcode 0x%02x", op)
		}
	}
	if err := tokenizer.Err(); err != nil {
		return nil, errors.Wrap(ErrInvalidEnvelope, err.Error())
	}
	return nil, errors.Wrap(ErrInvalidEnvelope, "missing OP_ENDIF")
}

func isBodyTag(v []byte) bool {
	return len(v) == 0 || (len(v) == 1 && v[0] == 0)
}

func fromPayload(payload [][]byte) (*Envelope, error) {
	bodyIdx := -1
	for i := 0; i < len(payload); i += 2 {
		if isBodyTag(payload[i]) {
			bodyIdx = i
			break
		}
	}

	headEnd := len(payload)
	body := make([]byte, 0)
	if bodyIdx != -1 {
		headEnd = bodyIdx
		for _, v := range payload[bodyIdx+1:] {
			body = append(body, v...)
		}
	}
	if headEnd%2 != 0 {
		return nil, errors.Wrap(ErrInvalidEnvelope, "incomplete field")
	}

	fields := make(map[TagType][][]byte)
	for i := 0; i < headEnd; i += 2 {
		tag := TagNop
		if len(payload[i]) == 1 {
			tag = TagFromByte(payload[i][0])
		}
		fields[tag] = append(fields[tag], payload[i+1])
	}

	env := &Envelope{
		ContentType:     constants.ContentType(TagContentType.RemoveField(fields)),
		ContentEncoding: string(TagContentEncoding.RemoveField(fields)),
		Metadata:        TagMetadata.RemoveField(fields),
		Body:            body,
	}
	return env, nil
}

func isPushBytes(opcode byte) bool {
	return (opcode >= txscript.OP_DATA_1 && opcode <= txscript.OP_DATA_75) ||
		opcode == txscript.OP_PUSHDATA1 || opcode == txscript.OP_PUSHDATA2 ||
		opcode == txscript.OP_PUSHDATA4
}

package inscription

// TagType identifies an envelope field.
type TagType int

const (
	TagNop TagType = iota
	TagContentType
	TagPointer
	TagParent
	TagMetadata
	TagMetaprotocol
	TagContentEncoding
	TagDelegate
)

// TagFromByte maps the single byte pushed before a field value to its tag.
func TagFromByte(b byte) TagType {
	switch b {
	case 1:
		return TagContentType
	case 2:
		return TagPointer
	case 3:
		return TagParent
	case 5:
		return TagMetadata
	case 7:
		return TagMetaprotocol
	case 9:
		return TagContentEncoding
	case 11:
		return TagDelegate
	default:
		return TagNop
	}
}

// Byte returns the wire value of t.
func (t TagType) Byte() byte {
	switch t {
	case TagContentType:
		return 1
	case TagPointer:
		return 2
	case TagParent:
		return 3
	case TagMetadata:
		return 5
	case TagMetaprotocol:
		return 7
	case TagContentEncoding:
		return 9
	case TagDelegate:
		return 11
	default:
		return 255
	}
}

// IsChunked reports whether values of t may span several pushes that are
// concatenated on decode.
func (t TagType) IsChunked() bool {
	return t == TagMetadata
}

// RemoveField removes t from fields and returns its value. Chunked tags
// return the concatenation of every push, others the first push only.
func (t TagType) RemoveField(fields map[TagType][][]byte) []byte {
	values, ok := fields[t]
	if !ok {
		return nil
	}
	if t.IsChunked() {
		delete(fields, t)
		var res []byte
		for _, v := range values {
			res = append(res, v...)
		}
		return res
	}
	res := values[0]
	if len(values) == 1 {
		delete(fields, t)
	} else {
		fields[t] = values[1:]
	}
	return res
}

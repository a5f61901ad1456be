package codec

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"ncs-viewer-go/internal/models"
)

const (
	ContentTypeJSON     = "application/json"
	ContentTypeProtobuf = "application/x-protobuf"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrUnknownFormat    = errors.New("unknown payload format")
)

// Codec converts detection messages to and from bus payloads
type Codec interface {
	ContentType() string
	Marshal(msg *models.ObjectsInBoxes) ([]byte, error)
	Unmarshal(data []byte, msg *models.ObjectsInBoxes) error
}

// ForFormat returns the codec for a configured format name: "json" or
// "protobuf" (aliases "proto", "pb")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return JSON{}, nil
	case "protobuf", "proto", "pb":
		return Protobuf{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ForContentType returns the codec for a Content-Type header value
func ForContentType(contentType string) (Codec, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: content type %q", ErrUnknownFormat, contentType)
	}
	switch mediaType {
	case ContentTypeJSON:
		return JSON{}, nil
	case ContentTypeProtobuf, "application/protobuf":
		return Protobuf{}, nil
	default:
		return nil, fmt.Errorf("%w: content type %q", ErrUnknownFormat, contentType)
	}
}

// Decode picks the codec from contentType, or fallback when it is empty,
// and decodes one message
func Decode(data []byte, contentType string, fallback Codec) (*models.ObjectsInBoxes, error) {
	c := fallback
	if contentType != "" {
		var err error
		if c, err = ForContentType(contentType); err != nil {
			return nil, err
		}
	}
	if c == nil {
		return nil, fmt.Errorf("%w: no content type and no default codec", ErrUnknownFormat)
	}

	msg := &models.ObjectsInBoxes{}
	if err := c.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

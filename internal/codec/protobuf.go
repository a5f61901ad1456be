package codec

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"

	"ncs-viewer-go/internal/models"
)

// Protobuf encodes messages per proto/object_msgs.proto
type Protobuf struct{}

func (Protobuf) ContentType() string { return ContentTypeProtobuf }

func (Protobuf) Marshal(msg *models.ObjectsInBoxes) ([]byte, error) {
	if msg == nil {
		return nil, nil
	}

	var b []byte
	header, err := marshalHeader(msg.Header)
	if err != nil {
		return nil, err
	}
	b = appendMessage(b, 1, header)
	for _, obj := range msg.Objects {
		b = appendMessage(b, 2, marshalObjectInBox(obj))
	}
	b = appendFloat(b, 3, msg.InferenceTimeMs)
	image, err := marshalImage(msg.Image)
	if err != nil {
		return nil, err
	}
	b = appendMessage(b, 4, image)
	return b, nil
}

func (Protobuf) Unmarshal(data []byte, msg *models.ObjectsInBoxes) error {
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, b, func(v []byte) error { return unmarshalHeader(v, &msg.Header) })
		case 2:
			return consumeMessage(typ, b, func(v []byte) error {
				var obj models.ObjectInBox
				if err := unmarshalObjectInBox(v, &obj); err != nil {
					return err
				}
				msg.Objects = append(msg.Objects, obj)
				return nil
			})
		case 3:
			return consumeFloat(typ, b, &msg.InferenceTimeMs), nil
		case 4:
			return consumeMessage(typ, b, func(v []byte) error { return unmarshalImage(v, &msg.Image) })
		}
		return 0, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

func marshalHeader(h models.Header) ([]byte, error) {
	var b []byte
	if !h.Stamp.IsZero() {
		stamp, err := proto.Marshal(timestamppb.New(h.Stamp))
		if err != nil {
			return nil, fmt.Errorf("failed to encode stamp: %w", err)
		}
		b = appendMessage(b, 1, stamp)
	}
	b = appendString(b, 2, h.FrameID)
	return b, nil
}

func unmarshalHeader(data []byte, h *models.Header) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, b, func(v []byte) error {
				ts := &timestamppb.Timestamp{}
				if err := proto.Unmarshal(v, ts); err != nil {
					return err
				}
				h.Stamp = ts.AsTime()
				return nil
			})
		case 2:
			return consumeString(typ, b, &h.FrameID), nil
		}
		return 0, nil
	})
}

func marshalImage(img models.Image) ([]byte, error) {
	header, err := marshalHeader(img.Header)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = appendMessage(b, 1, header)
	b = appendUint32(b, 2, img.Height)
	b = appendUint32(b, 3, img.Width)
	b = appendString(b, 4, img.Encoding)
	b = appendUint32(b, 5, uint32(img.IsBigEndian))
	b = appendUint32(b, 6, img.Step)
	if len(img.Data) > 0 {
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, img.Data)
	}
	return b, nil
}

func unmarshalImage(data []byte, img *models.Image) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, b, func(v []byte) error { return unmarshalHeader(v, &img.Header) })
		case 2:
			return consumeUint32(typ, b, &img.Height), nil
		case 3:
			return consumeUint32(typ, b, &img.Width), nil
		case 4:
			return consumeString(typ, b, &img.Encoding), nil
		case 5:
			var v uint32
			n := consumeUint32(typ, b, &v)
			img.IsBigEndian = uint8(v)
			return n, nil
		case 6:
			return consumeUint32(typ, b, &img.Step), nil
		case 7:
			return consumeMessage(typ, b, func(v []byte) error {
				img.Data = append([]byte(nil), v...)
				return nil
			})
		}
		return 0, nil
	})
}

func marshalObjectInBox(obj models.ObjectInBox) []byte {
	var object []byte
	object = appendString(object, 1, obj.Object.Name)
	object = appendFloat(object, 2, obj.Object.Probability)

	var roi []byte
	roi = appendUint32(roi, 1, obj.ROI.XOffset)
	roi = appendUint32(roi, 2, obj.ROI.YOffset)
	roi = appendUint32(roi, 3, obj.ROI.Height)
	roi = appendUint32(roi, 4, obj.ROI.Width)
	if obj.ROI.DoRectify {
		roi = protowire.AppendTag(roi, 5, protowire.VarintType)
		roi = protowire.AppendVarint(roi, 1)
	}

	var b []byte
	b = appendMessage(b, 1, object)
	b = appendMessage(b, 2, roi)
	return b
}

func unmarshalObjectInBox(data []byte, obj *models.ObjectInBox) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, b, func(v []byte) error {
				return walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case 1:
						return consumeString(typ, b, &obj.Object.Name), nil
					case 2:
						return consumeFloat(typ, b, &obj.Object.Probability), nil
					}
					return 0, nil
				})
			})
		case 2:
			return consumeMessage(typ, b, func(v []byte) error {
				return walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case 1:
						return consumeUint32(typ, b, &obj.ROI.XOffset), nil
					case 2:
						return consumeUint32(typ, b, &obj.ROI.YOffset), nil
					case 3:
						return consumeUint32(typ, b, &obj.ROI.Height), nil
					case 4:
						return consumeUint32(typ, b, &obj.ROI.Width), nil
					case 5:
						var v uint32
						n := consumeUint32(typ, b, &v)
						obj.ROI.DoRectify = v != 0
						return n, nil
					}
					return 0, nil
				})
			})
		}
		return 0, nil
	})
}

// walk calls fn for every field of a message. fn returns the number of bytes
// it consumed, or 0 to have the field skipped.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

// proto3 omits zero scalars on the wire

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// The consume helpers return 0 on a wire type mismatch so walk skips the field

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = uint32(v)
	}
	return n
}

func consumeFloat(typ protowire.Type, b []byte, dst *float32) int {
	if typ != protowire.Fixed32Type {
		return 0
	}
	v, n := protowire.ConsumeFixed32(b)
	if n >= 0 {
		*dst = math.Float32frombits(v)
	}
	return n
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return 0
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeMessage(typ protowire.Type, b []byte, fn func(v []byte) error) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	if err := fn(v); err != nil {
		return 0, err
	}
	return n, nil
}

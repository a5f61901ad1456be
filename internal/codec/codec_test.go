package codec

import (
	"errors"
	"testing"
	"time"

	"go.viam.com/test"
	"google.golang.org/protobuf/encoding/protowire"

	"ncs-viewer-go/internal/models"
)

func sampleMessage() *models.ObjectsInBoxes {
	stamp := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)
	return &models.ObjectsInBoxes{
		Header: models.Header{Stamp: stamp, FrameID: "camera"},
		Objects: []models.ObjectInBox{
			{
				Object: models.Object{Name: "person", Probability: 0.873},
				ROI:    models.RegionOfInterest{XOffset: 100, YOffset: 100, Width: 50, Height: 50},
			},
			{
				Object: models.Object{Name: "bottle", Probability: 0.5},
				ROI:    models.RegionOfInterest{XOffset: 10, YOffset: 20, Width: 4, Height: 8, DoRectify: true},
			},
		},
		InferenceTimeMs: 33.5,
		Image: models.Image{
			Header:   models.Header{Stamp: stamp, FrameID: "camera"},
			Height:   2,
			Width:    2,
			Encoding: models.EncodingBGR8,
			Step:     6,
			Data:     []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
	}
}

func checkDecoded(t *testing.T, got *models.ObjectsInBoxes) {
	t.Helper()
	want := sampleMessage()

	test.That(t, got.Header.FrameID, test.ShouldEqual, "camera")
	test.That(t, got.Header.Stamp.Equal(want.Header.Stamp), test.ShouldBeTrue)
	test.That(t, got.InferenceTimeMs, test.ShouldEqual, float32(33.5))
	test.That(t, got.Objects, test.ShouldResemble, want.Objects)
	test.That(t, got.Image.Encoding, test.ShouldEqual, models.EncodingBGR8)
	test.That(t, got.Image.Width, test.ShouldEqual, uint32(2))
	test.That(t, got.Image.Height, test.ShouldEqual, uint32(2))
	test.That(t, got.Image.Step, test.ShouldEqual, uint32(6))
	test.That(t, got.Image.Data, test.ShouldResemble, want.Image.Data)
}

func TestJSONDecode(t *testing.T) {
	payload := []byte(`{
		"header": {"stamp": "2024-03-01T12:30:00.0000005Z", "frame_id": "camera"},
		"objects_vector": [
			{"object": {"object_name": "person", "probability": 0.873},
			 "roi": {"x_offset": 100, "y_offset": 100, "height": 50, "width": 50}},
			{"object": {"object_name": "bottle", "probability": 0.5},
			 "roi": {"x_offset": 10, "y_offset": 20, "height": 8, "width": 4, "do_rectify": true}}
		],
		"inference_time_ms": 33.5,
		"image": {"height": 2, "width": 2, "encoding": "bgr8", "step": 6,
		          "data": "AQIDBAUGBwgJCgsM"}
	}`)

	msg, err := Decode(payload, ContentTypeJSON, nil)
	test.That(t, err, test.ShouldBeNil)
	checkDecoded(t, msg)
}

func TestProtobufRoundTrip(t *testing.T) {
	data, err := Protobuf{}.Marshal(sampleMessage())
	test.That(t, err, test.ShouldBeNil)

	msg, err := Decode(data, "application/x-protobuf", JSON{})
	test.That(t, err, test.ShouldBeNil)
	checkDecoded(t, msg)
}

func TestProtobufSkipsUnknownFields(t *testing.T) {
	data, err := Protobuf{}.Marshal(sampleMessage())
	test.That(t, err, test.ShouldBeNil)

	// unknown varint and length-delimited fields from a newer producer
	data = protowire.AppendTag(data, 15, protowire.VarintType)
	data = protowire.AppendVarint(data, 7)
	data = protowire.AppendTag(data, 16, protowire.BytesType)
	data = protowire.AppendString(data, "future")

	msg := &models.ObjectsInBoxes{}
	test.That(t, Protobuf{}.Unmarshal(data, msg), test.ShouldBeNil)
	checkDecoded(t, msg)
}

func TestDecodeFallsBackToDefault(t *testing.T) {
	data, err := Protobuf{}.Marshal(sampleMessage())
	test.That(t, err, test.ShouldBeNil)

	msg, err := Decode(data, "", Protobuf{})
	test.That(t, err, test.ShouldBeNil)
	checkDecoded(t, msg)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"objects_vector": [`), ContentTypeJSON, nil)
	test.That(t, errors.Is(err, ErrMalformedPayload), test.ShouldBeTrue)

	// truncated length-delimited field
	_, err = Decode([]byte{0x22, 0x10, 0x01}, ContentTypeProtobuf, nil)
	test.That(t, errors.Is(err, ErrMalformedPayload), test.ShouldBeTrue)

	_, err = Decode([]byte(`{}`), "text/plain", JSON{})
	test.That(t, errors.Is(err, ErrUnknownFormat), test.ShouldBeTrue)

	_, err = Decode([]byte(`{}`), "", nil)
	test.That(t, errors.Is(err, ErrUnknownFormat), test.ShouldBeTrue)
}

func TestForFormat(t *testing.T) {
	c, err := ForFormat("json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.ContentType(), test.ShouldEqual, ContentTypeJSON)

	c, err = ForFormat("Protobuf")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.ContentType(), test.ShouldEqual, ContentTypeProtobuf)

	_, err = ForFormat("msgpack")
	test.That(t, errors.Is(err, ErrUnknownFormat), test.ShouldBeTrue)
}

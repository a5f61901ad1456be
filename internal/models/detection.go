package models

import (
	"time"
)

// Image encodings recognized by the viewer
const (
	EncodingMono8  = "mono8"
	EncodingMono16 = "mono16"
	EncodingBGR8   = "bgr8"
	EncodingRGB8   = "rgb8"
	EncodingBGRA8  = "bgra8"
	EncodingRGBA8  = "rgba8"
	Encoding32FC1  = "32FC1"
)

// Header carries the source timestamp and frame id of a message
type Header struct {
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frame_id"`
}

// Image is a raw image buffer as published by the detector
type Image struct {
	Header      Header `json:"header"`
	Height      uint32 `json:"height"`
	Width       uint32 `json:"width"`
	Encoding    string `json:"encoding"`
	IsBigEndian uint8  `json:"is_bigendian"`
	Step        uint32 `json:"step"` // Full row length in bytes
	Data        []byte `json:"data"`
}

// Object is the classification part of a detection
type Object struct {
	Name        string  `json:"object_name"`
	Probability float32 `json:"probability"` // 0-1
}

// RegionOfInterest is a box given by its center point and size, in pixels
type RegionOfInterest struct {
	XOffset   uint32 `json:"x_offset"` // Center x
	YOffset   uint32 `json:"y_offset"` // Center y
	Height    uint32 `json:"height"`
	Width     uint32 `json:"width"`
	DoRectify bool   `json:"do_rectify"`
}

// ObjectInBox is one detected object and where it was found
type ObjectInBox struct {
	Object Object           `json:"object"`
	ROI    RegionOfInterest `json:"roi"`
}

// ObjectsInBoxes is the detection message: the image the detector ran on
// plus every object it found, in detector order
type ObjectsInBoxes struct {
	Header          Header        `json:"header"`
	Objects         []ObjectInBox `json:"objects_vector"`
	InferenceTimeMs float32       `json:"inference_time_ms"`
	Image           Image         `json:"image"`
}

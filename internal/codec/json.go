package codec

import (
	"encoding/json"
	"fmt"

	"ncs-viewer-go/internal/models"
)

// JSON encodes messages as JSON with the image data in base64
type JSON struct{}

func (JSON) ContentType() string { return ContentTypeJSON }

func (JSON) Marshal(msg *models.ObjectsInBoxes) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSON) Unmarshal(data []byte, msg *models.ObjectsInBoxes) error {
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

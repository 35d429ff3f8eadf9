package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

const maxTagLength = 100

// fieldSetter decodes one raw JSON value into the patch.
type fieldSetter func(raw json.RawMessage, p *model.ImagePatch) error

// editableFields is the update allow-list. Keys missing from it are ignored.
var editableFields = map[string]fieldSetter{
	"altText": func(raw json.RawMessage, p *model.ImagePatch) error {
		v, err := decodeNullableString(raw)
		p.AltText = v
		return err
	},
	"isDecorative": func(raw json.RawMessage, p *model.ImagePatch) error {
		if isNull(raw) {
			return errNullFlag
		}
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		p.IsDecorative = &v
		return nil
	},
	"title": func(raw json.RawMessage, p *model.ImagePatch) error {
		v, err := decodeNullableString(raw)
		p.Title = v
		return err
	},
	"tags": func(raw json.RawMessage, p *model.ImagePatch) error {
		var v model.Tags
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		v = v.Normalise()
		p.Tags = &v
		return nil
	},
	"status": func(raw json.RawMessage, p *model.ImagePatch) error {
		var v model.ImageStatus
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		p.Status = &v
		return nil
	},
}

var errNullFlag = errors.New("flag cannot be null")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// null clears the value; it is stored as an empty string which the repository persists as NULL
func decodeNullableString(raw json.RawMessage) (*string, error) {
	var v string
	if isNull(raw) {
		return &v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type imageUpdaterSrv struct {
	repo port.ImageRepository
}

// NewImageUpdater constructs an ImageUpdater implementation.
func NewImageUpdater(repo port.ImageRepository) port.ImageUpdater {
	return &imageUpdaterSrv{repo: repo}
}

// BuildPatch keeps the allow-listed keys of raw and decodes them.
func BuildPatch(raw map[string]json.RawMessage) (model.ImagePatch, error) {
	var p model.ImagePatch
	ve := &ValidationError{Fields: map[string]string{}}
	for key, value := range raw {
		set, ok := editableFields[key]
		if !ok {
			continue
		}
		if err := set(value, &p); err != nil {
			ve.Fields[key] = "type"
		}
	}

	if p.Status != nil && !p.Status.IsValid() {
		ve.Fields["status"] = "imagestatus"
	}
	if p.Tags != nil {
		for _, tag := range *p.Tags {
			if len(tag) > maxTagLength {
				ve.Fields["tags"] = "max"
				break
			}
		}
	}

	if len(ve.Fields) > 0 {
		return model.ImagePatch{}, ve
	}
	return p, nil
}

// UpdateFields applies the editable fields of patch to the active image with the given id.
func (s *imageUpdaterSrv) UpdateFields(ctx context.Context, id uuid.UUID, raw map[string]json.RawMessage) (*model.StoredImage, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !img.IsActive() {
		return nil, ErrNotFound
	}

	patch, err := BuildPatch(raw)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !img.Status.CanTransitionTo(*patch.Status) {
		return nil, fieldError("status", "transition")
	}
	if patch.IsEmpty() {
		return img, nil
	}

	return s.repo.Update(ctx, id, patch)
}

package details

import (
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/fxamacker/cbor/v2"
)

type itemDocument struct {
	ID          string `cbor:"_id"`
	Description string `cbor:"description"`
	Image       []byte `cbor:"image,omitempty"`
}

type claimDocument struct {
	ID            string `cbor:"_id"`
	EvidenceImage []byte `cbor:"evidence_image,omitempty"`
	Note          string `cbor:"note"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = (cbor.EncOptions{Sort: cbor.SortCanonical}).EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

func encodeItem(ref models.DetailRef, description string, image []byte) ([]byte, error) {
	return encMode.Marshal(itemDocument{ID: ref.String(), Description: description, Image: image})
}

func decodeItem(ref models.DetailRef, data []byte) (*models.ItemDetail, error) {
	var doc itemDocument
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode item detail: %w", err)
	}
	return &models.ItemDetail{ID: ref, Description: doc.Description, Image: doc.Image}, nil
}

func encodeClaim(ref models.DetailRef, evidence []byte, note string) ([]byte, error) {
	return encMode.Marshal(claimDocument{ID: ref.String(), EvidenceImage: evidence, Note: note})
}

func decodeClaim(ref models.DetailRef, data []byte) (*models.ClaimDetail, error) {
	var doc claimDocument
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode claim detail: %w", err)
	}
	return &models.ClaimDetail{ID: ref, EvidenceImage: doc.EvidenceImage, Note: doc.Note}, nil
}

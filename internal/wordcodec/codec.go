// Package wordcodec encodes the word of the day into the bytes kept in the
// shared store.
//
// The encoding is a CBOR map with the text keys "word", "definition",
// "example" and "pronunciation". Encoding is deterministic (core
// deterministic CBOR) and strings are stored verbatim.
package wordcodec

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/verte-zerg/wordwidget/internal/model"
)

var (
	// ErrDecode reports bytes that are absent, truncated or of the wrong shape.
	ErrDecode = errors.New("decode word of day")

	// ErrEncode reports a word that cannot be serialized.
	ErrEncode = errors.New("encode word of day")
)

// Codec converts a word of the day to and from bytes.
type Codec interface {
	Encode(word model.WordOfDay) ([]byte, error)
	Decode(data []byte) (model.WordOfDay, error)
}

type wireWord struct {
	Word          *string `cbor:"word"`
	Definition    *string `cbor:"definition"`
	Example       *string `cbor:"example"`
	Pronunciation *string `cbor:"pronunciation"`
}

// CBOR is the default Codec.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// New returns the CBOR codec.
func New() *CBOR {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wordcodec: encoder options: %v", err))
	}
	dec, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		UTF8:              cbor.UTF8RejectInvalid,
		FieldNameMatching: cbor.FieldNameMatchingCaseSensitive,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wordcodec: decoder options: %v", err))
	}
	return &CBOR{enc: enc, dec: dec}
}

// Encode implements Codec. Every field must be valid UTF-8.
func (c *CBOR) Encode(word model.WordOfDay) ([]byte, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"word", word.Word},
		{"definition", word.Definition},
		{"example", word.Example},
		{"pronunciation", word.Pronunciation},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrEncode, f.name)
		}
	}
	data, err := c.enc.Marshal(wireWord{
		Word:          &word.Word,
		Definition:    &word.Definition,
		Example:       &word.Example,
		Pronunciation: &word.Pronunciation,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

// Decode implements Codec. Keys match case-sensitively and unknown extra
// keys are ignored; every known key must be present and hold a text string.
func (c *CBOR) Decode(data []byte) (model.WordOfDay, error) {
	if len(data) == 0 {
		return model.WordOfDay{}, fmt.Errorf("%w: no data", ErrDecode)
	}
	var w wireWord
	if err := c.dec.Unmarshal(data, &w); err != nil {
		return model.WordOfDay{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch {
	case w.Word == nil:
		return model.WordOfDay{}, missing("word")
	case w.Definition == nil:
		return model.WordOfDay{}, missing("definition")
	case w.Example == nil:
		return model.WordOfDay{}, missing("example")
	case w.Pronunciation == nil:
		return model.WordOfDay{}, missing("pronunciation")
	}
	return model.WordOfDay{
		Word:          *w.Word,
		Definition:    *w.Definition,
		Example:       *w.Example,
		Pronunciation: *w.Pronunciation,
	}, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrDecode, field)
}

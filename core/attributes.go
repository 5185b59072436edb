package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AttributeType discriminates operation attribute rows. Unrecognized values
// are preserved through UnknownAttribute.
type AttributeType string

const (
	AttributeAmount           AttributeType = "AMOUNT"
	AttributeAmountConversion AttributeType = "AMOUNT_CONVERSION"
	AttributeKeyValue         AttributeType = "KEY_VALUE"
	AttributeNote             AttributeType = "NOTE"
	AttributeHeading          AttributeType = "HEADING"
	AttributeImage            AttributeType = "IMAGE"
)

// Attribute is one display row of an operation form.
type Attribute interface {
	AttributeType() AttributeType
	AttributeLabel() AttributeLabel
}

type AttributeLabel struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type AttributeBase struct {
	Type  AttributeType  `json:"type"`
	Label AttributeLabel `json:"label"`
}

func (a AttributeBase) AttributeType() AttributeType { return a.Type }

func (a AttributeBase) AttributeLabel() AttributeLabel { return a.Label }

type AmountAttribute struct {
	AttributeBase
	AmountFormatted   string   `json:"amountFormatted"`
	CurrencyFormatted string   `json:"currencyFormatted"`
	Amount            *float64 `json:"amount,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	ValueFormatted    string   `json:"valueFormatted,omitempty"`
}

// AmountConversionAttribute describes a currency exchange. Dynamic is a UI
// hint only; rates are never refreshed by this package.
type AmountConversionAttribute struct {
	AttributeBase
	Dynamic                 bool     `json:"dynamic"`
	SourceAmountFormatted   string   `json:"sourceAmountFormatted"`
	SourceCurrencyFormatted string   `json:"sourceCurrencyFormatted"`
	SourceAmount            *float64 `json:"sourceAmount,omitempty"`
	SourceCurrency          string   `json:"sourceCurrency,omitempty"`
	SourceValueFormatted    string   `json:"sourceValueFormatted,omitempty"`
	TargetAmountFormatted   string   `json:"targetAmountFormatted"`
	TargetCurrencyFormatted string   `json:"targetCurrencyFormatted"`
	TargetAmount            *float64 `json:"targetAmount,omitempty"`
	TargetCurrency          string   `json:"targetCurrency,omitempty"`
	TargetValueFormatted    string   `json:"targetValueFormatted,omitempty"`
}

type KeyValueAttribute struct {
	AttributeBase
	Value string `json:"value"`
}

type NoteAttribute struct {
	AttributeBase
	Note string `json:"note"`
}

type HeadingAttribute struct {
	AttributeBase
}

type ImageAttribute struct {
	AttributeBase
	ThumbnailURL string `json:"thumbnailUrl"`
	OriginalURL  string `json:"originalUrl,omitempty"`
}

// UnknownAttribute keeps an attribute whose type this version does not know.
type UnknownAttribute struct {
	AttributeBase
	Raw json.RawMessage
}

func (a UnknownAttribute) MarshalJSON() ([]byte, error) {
	if len(a.Raw) > 0 {
		return a.Raw, nil
	}
	return json.Marshal(a.AttributeBase)
}

// Attributes decodes each row into its concrete type based on the "type"
// field alone.
type Attributes []Attribute

func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("core: attributes must be an array: %w", err)
	}
	out := make(Attributes, 0, len(rows))
	for index, row := range rows {
		attr, err := decodeAttribute(row)
		if err != nil {
			return fmt.Errorf("core: attribute %d: %w", index, err)
		}
		out = append(out, attr)
	}
	*a = out
	return nil
}

func decodeAttribute(row json.RawMessage) (Attribute, error) {
	var base AttributeBase
	if err := json.Unmarshal(row, &base); err != nil {
		return nil, err
	}
	switch base.Type {
	case AttributeAmount:
		return decodeAttributeAs[AmountAttribute](row)
	case AttributeAmountConversion:
		return decodeAttributeAs[AmountConversionAttribute](row)
	case AttributeKeyValue:
		return decodeAttributeAs[KeyValueAttribute](row)
	case AttributeNote:
		return decodeAttributeAs[NoteAttribute](row)
	case AttributeHeading:
		return decodeAttributeAs[HeadingAttribute](row)
	case AttributeImage:
		return decodeAttributeAs[ImageAttribute](row)
	default:
		return UnknownAttribute{
			AttributeBase: base,
			Raw:           append(json.RawMessage(nil), row...),
		}, nil
	}
}

func decodeAttributeAs[T Attribute](row json.RawMessage) (Attribute, error) {
	var attr T
	if err := json.Unmarshal(row, &attr); err != nil {
		return nil, err
	}
	return attr, nil
}

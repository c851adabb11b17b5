package kafka

import (
	"encoding/json"
	"fmt"
)

// Serializer encodes a message value before publishing.
type Serializer interface {
	Serialize(data interface{}) ([]byte, error)
}

// Deserializer decodes a consumed message value.
type Deserializer interface {
	Deserialize(data []byte, target interface{}) error
}

// JSONSerializer marshals values as JSON. []byte and string values pass
// through unchanged.
type JSONSerializer struct{}

func (j *JSONSerializer) Serialize(data interface{}) ([]byte, error) {
	switch v := data.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("JSONSerializer: failed to serialize: %w", err)
	}
	return b, nil
}

// JSONDeserializer unmarshals JSON values.
type JSONDeserializer struct{}

func (j *JSONDeserializer) Deserialize(data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("JSONDeserializer: failed to deserialize: %w", err)
	}
	return nil
}

// StringSerializer formats values with %v.
type StringSerializer struct{}

func (s *StringSerializer) Serialize(data interface{}) ([]byte, error) {
	switch v := data.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return []byte(fmt.Sprintf("%v", data)), nil
}

// StringDeserializer fills a *string or *[]byte.
type StringDeserializer struct{}

func (s *StringDeserializer) Deserialize(data []byte, target interface{}) error {
	switch t := target.(type) {
	case *string:
		*t = string(data)
	case *[]byte:
		*t = data
	default:
		return fmt.Errorf("StringDeserializer: target must be *string or *[]byte, got %T", target)
	}
	return nil
}

// NoOpSerializer accepts only []byte.
type NoOpSerializer struct{}

func (n *NoOpSerializer) Serialize(data interface{}) ([]byte, error) {
	b, ok := data.([]byte)
	if !ok {
		return nil, fmt.Errorf("NoOpSerializer: requires []byte input, got %T", data)
	}
	return b, nil
}

// NoOpDeserializer fills a *[]byte.
type NoOpDeserializer struct{}

func (n *NoOpDeserializer) Deserialize(data []byte, target interface{}) error {
	b, ok := target.(*[]byte)
	if !ok {
		return fmt.Errorf("NoOpDeserializer: requires *[]byte target, got %T", target)
	}
	*b = data
	return nil
}

func defaultSerializer(dataType string) Serializer {
	switch dataType {
	case "string":
		return &StringSerializer{}
	case "bytes":
		return &NoOpSerializer{}
	default:
		return &JSONSerializer{}
	}
}

func defaultDeserializer(dataType string) Deserializer {
	switch dataType {
	case "string":
		return &StringDeserializer{}
	case "bytes":
		return &NoOpDeserializer{}
	default:
		return &JSONDeserializer{}
	}
}

package store

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Encode serializes a stored value. The std-compatible sonic config keeps map
// keys sorted so equal values produce equal bytes.
func Encode(v any) ([]byte, error) {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

func Decode(data []byte, v any) error {
	if err := sonic.ConfigStd.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}

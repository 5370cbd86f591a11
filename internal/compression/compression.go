// Package compression frames stored payloads with the algorithm that
// produced them so readers can decode values written under older settings.
package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// Compressor interface for compression algorithms
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return noneCompressor{}, nil
	case Snappy:
		return snappyCompressor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// ParseAlgorithm maps a config string to an Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "snappy":
		return Snappy, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("unsupported compression: %s", name)
	}
}

type noneCompressor struct{}

func (noneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Algorithm() Algorithm                   { return None }

type snappyCompressor struct{}

func (snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}
	return out, nil
}

func (snappyCompressor) Algorithm() Algorithm { return Snappy }

// Encode compresses data and prepends a one-byte algorithm header
func Encode(algo Algorithm, data []byte) ([]byte, error) {
	c, err := GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(algo))
	return append(out, body...), nil
}

// Decode reverses Encode using the header byte
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	c, err := GetCompressor(Algorithm(data[0]))
	if err != nil {
		return nil, err
	}
	return c.Decompress(data[1:])
}
